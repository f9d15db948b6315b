package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"studybuddy"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	var (
		configPath = flag.String("config", "studybuddy.toml", "Path to TOML config file")
		topic      = flag.String("topic", "", "Learning topic for the quiz")
		numItems   = flag.Int("questions", 5, "Number of quiz questions to generate")
		level      = flag.String("level", "easy", "Difficulty level (easy, medium, hard)")
		material   = flag.String("material", "", "Path to a text/markdown file used as reference material")
		quizID     = flag.String("quiz", "", "Replay a stored quiz by id instead of generating")
		apiKey     = flag.String("api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		chatMode   = flag.Bool("chat", false, "Start an interactive chat session instead of a quiz")
		review     = flag.Bool("review", false, "Print a review card over missed questions after the quiz")
		verbose    = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	// .env is optional; flags and real env still win.
	_ = godotenv.Load()

	studybuddy.SetVerbose(*verbose)

	cfg, err := studybuddy.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Verbose {
		studybuddy.SetVerbose(true)
	}

	if *apiKey == "" {
		*apiKey = os.Getenv("OPENAI_API_KEY")
		if *apiKey == "" {
			log.Fatal("OpenAI API key is required. Use -api-key flag or set OPENAI_API_KEY environment variable.")
		}
	}

	prompts := studybuddy.LoadPrompts(cfg.PromptFile)

	var refs []studybuddy.ContentRef
	if *material != "" {
		data, err := os.ReadFile(*material)
		if err != nil {
			log.Fatalf("Failed to read material file: %v", err)
		}
		refs = append(refs, studybuddy.ContentRef{Name: *material, Text: string(data)})
	}

	store, err := studybuddy.OpenStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	ledger, err := store.LoadLedger()
	if err != nil {
		log.Fatalf("Failed to load progress: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if *chatMode {
		runChat(ctx, *apiKey, cfg.Model, refs, prompts)
		return
	}

	quiz, err := obtainQuiz(ctx, store, *apiKey, cfg.Model, studybuddy.QuizRequest{
		Topic:        *topic,
		NumItems:     *numItems,
		Level:        *level,
		Refs:         refs,
		SystemRole:   prompts.Get(studybuddy.SectionSystemRole),
		Instructions: prompts.Get(studybuddy.SectionQuizInstruction),
	}, *quizID)
	if err != nil {
		log.Fatalf("Failed to obtain quiz: %v", err)
	}

	if len(quiz.Items) == 0 {
		fmt.Println("⚠️  The model produced an empty quiz. Try again with a more specific topic.")
		return
	}

	playQuiz(quiz, ledger, store)

	if *review {
		printReviewCard(ctx, *apiKey, cfg.Model, ledger, *topic, refs, prompts)
	}
}

// obtainQuiz loads a stored quiz or generates and stores a new one.
func obtainQuiz(ctx context.Context, store *studybuddy.Store, apiKey, model string, req studybuddy.QuizRequest, quizID string) (*studybuddy.Quiz, error) {
	if quizID != "" {
		quiz, err := store.LoadQuiz(quizID)
		if err != nil {
			return nil, err
		}
		if err := studybuddy.Validate(quiz); err != nil {
			return nil, fmt.Errorf("stored quiz %s is invalid: %w", quizID, err)
		}
		return quiz, nil
	}

	if strings.TrimSpace(req.Topic) == "" && len(req.Refs) == 0 {
		return nil, errors.New("a -topic or -material is required to generate a quiz")
	}

	maker := studybuddy.NewQuizMaker(apiKey, model)

	logger, err := studybuddy.NewSessionLogger(uuid.NewString(), req.Topic, req.Level)
	if err != nil {
		log.Printf("Failed to create session logger: %v", err)
		// Continue without transcript logging rather than failing.
	} else {
		maker.SetLogger(logger)
		defer logger.Close()
	}

	fmt.Println("⏳ Generating quiz... (this may take a moment)")
	quiz, err := maker.GenerateQuiz(ctx, req)
	if err != nil {
		return nil, err
	}

	if id, err := store.SaveQuiz(quiz); err != nil {
		log.Printf("Failed to save quiz: %v", err)
	} else {
		studybuddy.VerboseLog("Saved quiz as %s", id)
	}

	return quiz, nil
}

func playQuiz(quiz *studybuddy.Quiz, ledger *studybuddy.ProgressLedger, store *studybuddy.Store) {
	fmt.Printf("🎯 Quiz: %s (level: %s, %d questions)\n\n", quiz.Topic, quiz.Level, len(quiz.Items))

	session := studybuddy.NewQuizSession(quiz, ledger)
	scanner := bufio.NewScanner(os.Stdin)
	letters := "ABCD"

	for session.Phase() != studybuddy.PhaseCompleted {
		item, err := session.Current()
		if err != nil {
			log.Fatalf("Session error: %v", err)
		}

		fmt.Printf("Question %d/%d:\n%s\n\n", session.Index()+1, session.Len(), item.Question)
		for i, option := range item.Options {
			fmt.Printf("%c) %s\n", letters[i], option)
		}
		fmt.Println()

		correct := false
		for {
			fmt.Print("Your answer (A/B/C/D): ")
			if !scanner.Scan() {
				return
			}
			answer := strings.ToUpper(strings.TrimSpace(scanner.Text()))

			choice := -1
			if len(answer) == 1 {
				choice = strings.IndexByte(letters, answer[0])
			}

			correct, err = session.Submit(choice)
			var inputErr *studybuddy.UserInputError
			if errors.As(err, &inputErr) {
				fmt.Println("Please enter A, B, C, or D")
				continue
			}
			if err != nil {
				log.Fatalf("Submit failed: %v", err)
			}
			break
		}

		if correct {
			fmt.Println("✅ Correct!")
		} else {
			fmt.Println("❌ Incorrect.")
		}

		fmt.Print("Press Enter for the answer key, or type s to skip: ")
		if scanner.Scan() && strings.TrimSpace(scanner.Text()) != "s" {
			revealed, err := session.Reveal()
			if err != nil {
				log.Fatalf("Reveal failed: %v", err)
			}
			fmt.Printf("🔑 Correct answer: %c) %s\n", letters[revealed.AnswerIndex], revealed.Options[revealed.AnswerIndex])
			if revealed.Explanation != "" {
				fmt.Printf("💡 %s\n", revealed.Explanation)
			}
		}

		if err := session.Advance(); err != nil {
			log.Fatalf("Advance failed: %v", err)
		}

		fmt.Println()
		fmt.Println(strings.Repeat("─", 50))
		fmt.Println()
	}

	fmt.Println("🎉 Quiz completed!")
	showProgress(ledger)

	// Persist outcomes; the primary-key ignore keeps replays from
	// double-counting.
	for _, entry := range ledger.History {
		if err := store.SaveProgress(entry); err != nil {
			log.Printf("Failed to save progress entry %s: %v", entry.ItemID, err)
		}
	}
}

func showProgress(ledger *studybuddy.ProgressLedger) {
	fmt.Printf("\n📊 Progress: %d attempted, %d correct (%.1f%%)\n",
		ledger.TotalAttempts, ledger.TotalCorrect, ledger.Accuracy())

	summary := ledger.RecentSummary(studybuddy.DefaultSummaryLen)
	if len(summary) == 0 {
		return
	}
	fmt.Printf("Last %d answers: ", len(summary))
	for _, s := range summary {
		mark := "❌"
		if s.Correct {
			mark = "✅"
		}
		fmt.Printf("%s(%s) ", mark, s.Level)
	}
	fmt.Println()
}

func runChat(ctx context.Context, apiKey, model string, refs []studybuddy.ContentRef, prompts studybuddy.PromptSections) {
	tutor := studybuddy.NewChatTutor(apiKey, model)
	scanner := bufio.NewScanner(os.Stdin)
	var turns []studybuddy.ChatTurn

	fmt.Println("💬 Chat with StudyBuddy. Type 'exit' to quit.")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			return
		}

		turns = append(turns, studybuddy.ChatTurn{Role: studybuddy.RoleUser, Content: line})
		reply, err := tutor.Respond(ctx, turns, refs, prompts.Get(studybuddy.SectionSystemRole))
		if err != nil {
			log.Printf("Chat failed: %v", err)
			continue
		}
		turns = append(turns, studybuddy.ChatTurn{Role: studybuddy.RoleAssistant, Content: reply})
		fmt.Println(reply)
	}
}

func printReviewCard(ctx context.Context, apiKey, model string, ledger *studybuddy.ProgressLedger, topic string, refs []studybuddy.ContentRef, prompts studybuddy.PromptSections) {
	missed := ledger.MissedItemIDs()
	if len(missed) == 0 {
		fmt.Println("🔁 Nothing to review — no incorrect answers yet!")
		return
	}

	tutor := studybuddy.NewChatTutor(apiKey, model)
	card, err := tutor.ReviewCard(ctx, missed, topic, refs,
		prompts.Get(studybuddy.SectionSystemRole), prompts.Get(studybuddy.SectionReviewTips))
	if err != nil {
		log.Printf("Failed to build review card: %v", err)
		return
	}

	fmt.Println("\n🔁 Review Card")
	fmt.Println(strings.Repeat("─", 50))
	fmt.Println(card)
}
