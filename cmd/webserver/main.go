package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"studybuddy"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
)

const sessionCookie = "studybuddy-session"

// learnerSession is the server-side state for one browser: the active quiz
// session and the ledger feeding the progress panel. Quiz progression is not
// persisted; restarting the process starts learners fresh.
type learnerSession struct {
	quizID  string
	quiz    *studybuddy.Quiz
	session *studybuddy.QuizSession
	ledger  *studybuddy.ProgressLedger
}

type Server struct {
	store     *studybuddy.Store
	maker     *studybuddy.QuizMaker
	cookies   *sessions.CookieStore
	templates map[string]*template.Template
	prompts   studybuddy.PromptSections

	mu       sync.Mutex
	learners map[string]*learnerSession
}

func main() {
	_ = godotenv.Load()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	cfg, err := studybuddy.LoadConfig("studybuddy.toml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	studybuddy.SetVerbose(cfg.Verbose)

	store, err := studybuddy.OpenStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "studybuddy-dev-secret"
	}

	server := &Server{
		store:     store,
		maker:     studybuddy.NewQuizMaker(apiKey, cfg.Model),
		cookies:   sessions.NewCookieStore([]byte(secret)),
		templates: loadTemplates(),
		prompts:   studybuddy.LoadPrompts(cfg.PromptFile),
		learners:  make(map[string]*learnerSession),
	}

	http.HandleFunc("/", server.handleHome)
	http.HandleFunc("/quiz/new", server.handleNewQuiz)
	http.HandleFunc("/quiz/start", server.handleStartStored)
	http.HandleFunc("/session", server.handleSession)

	log.Printf("Starting server on %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, nil))
}

// learner returns (creating if needed) the server-side state for this
// browser, keyed by an opaque id in the cookie session.
func (s *Server) learner(w http.ResponseWriter, r *http.Request) *learnerSession {
	cookie, _ := s.cookies.Get(r, sessionCookie)
	sid, _ := cookie.Values["sid"].(string)
	if sid == "" {
		sid = uuid.NewString()
		cookie.Values["sid"] = sid
		if err := cookie.Save(r, w); err != nil {
			log.Printf("Session save error: %v", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ls, ok := s.learners[sid]
	if !ok {
		ls = &learnerSession{ledger: &studybuddy.ProgressLedger{}}
		s.learners[sid] = ls
	}
	return ls
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	quizzes, err := s.store.ListQuizzes(20)
	if err != nil {
		log.Printf("Failed to list quizzes: %v", err)
		http.Error(w, "Failed to list quizzes", http.StatusInternalServerError)
		return
	}

	s.render(w, "home", map[string]interface{}{
		"Quizzes": quizzes,
	})
}

func (s *Server) handleNewQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	topic := r.FormValue("topic")
	if topic == "" {
		http.Error(w, "Topic is required", http.StatusBadRequest)
		return
	}
	level := r.FormValue("level")
	if level == "" {
		level = "easy"
	}
	numItems, err := strconv.Atoi(r.FormValue("num_items"))
	if err != nil || numItems <= 0 {
		numItems = 5
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	quiz, err := s.maker.GenerateQuiz(ctx, studybuddy.QuizRequest{
		Topic:        topic,
		NumItems:     numItems,
		Level:        level,
		SystemRole:   s.prompts.Get(studybuddy.SectionSystemRole),
		Instructions: s.prompts.Get(studybuddy.SectionQuizInstruction),
	})
	if err != nil {
		log.Printf("Quiz generation failed: %v", err)
		http.Error(w, fmt.Sprintf("Quiz generation failed: %v", err), http.StatusBadGateway)
		return
	}

	quizID, err := s.store.SaveQuiz(quiz)
	if err != nil {
		log.Printf("Failed to save quiz: %v", err)
	}

	ls := s.learner(w, r)
	s.mu.Lock()
	ls.quizID = quizID
	ls.quiz = quiz
	ls.session = studybuddy.NewQuizSession(quiz, ls.ledger)
	s.mu.Unlock()

	http.Redirect(w, r, "/session", http.StatusSeeOther)
}

func (s *Server) handleStartStored(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("id")
	if quizID == "" {
		http.NotFound(w, r)
		return
	}

	quiz, err := s.store.LoadQuiz(quizID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := studybuddy.Validate(quiz); err != nil {
		log.Printf("Stored quiz %s is invalid: %v", quizID, err)
		http.Error(w, "Stored quiz is invalid", http.StatusInternalServerError)
		return
	}

	ls := s.learner(w, r)
	s.mu.Lock()
	ls.quizID = quizID
	ls.quiz = quiz
	ls.session = studybuddy.NewQuizSession(quiz, ls.ledger)
	s.mu.Unlock()

	http.Redirect(w, r, "/session", http.StatusSeeOther)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	ls := s.learner(w, r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ls.session == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Failed to parse form", http.StatusBadRequest)
			return
		}
		s.applyAction(w, r, ls)
		return
	}

	s.renderSession(w, ls, "")
}

// applyAction performs one state-machine action. Invalid user input
// re-renders with a warning; the session itself is never corrupted by a
// duplicate or out-of-order request.
func (s *Server) applyAction(w http.ResponseWriter, r *http.Request, ls *learnerSession) {
	var err error
	switch r.FormValue("action") {
	case "submit":
		choice := -1
		if v := r.FormValue("choice"); v != "" {
			if n, convErr := strconv.Atoi(v); convErr == nil {
				choice = n
			}
		}
		_, err = ls.session.Submit(choice)
	case "reveal":
		_, err = ls.session.Reveal()
	case "advance":
		err = ls.session.Advance()
	case "restart":
		ls.session.Restart()
		ls.session = nil
		ls.quiz = nil
		ls.quizID = ""
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	default:
		http.Error(w, "Unknown action", http.StatusBadRequest)
		return
	}

	var inputErr *studybuddy.UserInputError
	if errors.As(err, &inputErr) {
		s.renderSession(w, ls, inputErr.Reason)
		return
	}
	if err != nil && !errors.Is(err, studybuddy.ErrQuizCompleted) {
		log.Printf("Session action failed: %v", err)
		http.Error(w, "Session action failed", http.StatusInternalServerError)
		return
	}

	// Redirect-after-post so a browser refresh re-renders instead of
	// re-submitting. The core tolerates duplicates anyway.
	http.Redirect(w, r, "/session", http.StatusSeeOther)
}

func (s *Server) renderSession(w http.ResponseWriter, ls *learnerSession, warning string) {
	sess := ls.session
	ledger := ls.ledger

	data := map[string]interface{}{
		"Topic":    ls.quiz.Topic,
		"Level":    ls.quiz.Level,
		"Phase":    string(sess.Phase()),
		"Warning":  warning,
		"Attempts": ledger.TotalAttempts,
		"Correct":  ledger.TotalCorrect,
		"Accuracy": fmt.Sprintf("%.1f", ledger.Accuracy()),
		"Summary":  ledger.RecentSummary(studybuddy.DefaultSummaryLen),
	}

	if sess.Phase() == studybuddy.PhaseCompleted {
		s.render(w, "completed", data)
		return
	}

	item, err := sess.Current()
	if err != nil {
		log.Printf("Failed to get current item: %v", err)
		http.Error(w, "Session error", http.StatusInternalServerError)
		return
	}

	data["Number"] = sess.Index() + 1
	data["Total"] = sess.Len()
	data["Question"] = item.Question
	data["Options"] = item.Options

	if choice, ok := sess.Selected(); ok {
		data["Choice"] = choice
		data["WasCorrect"] = choice == item.AnswerIndex
	}
	if sess.Phase() == studybuddy.PhaseRevealed {
		data["AnswerIndex"] = item.AnswerIndex
		data["AnswerText"] = item.Options[item.AnswerIndex]
		data["Explanation"] = item.Explanation
	}

	s.render(w, "question", data)
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	if err := s.templates[name].Execute(w, data); err != nil {
		log.Printf("Template error in %s: %v", name, err)
	}
}
