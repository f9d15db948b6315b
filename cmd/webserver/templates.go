package main

import "html/template"

func loadTemplates() map[string]*template.Template {
	funcMap := template.FuncMap{
		"letter": func(i int) string {
			return string(rune('A' + i))
		},
		"add": func(a, b int) int {
			return a + b
		},
	}

	templates := make(map[string]*template.Template)
	for name, body := range map[string]string{
		"home":      homeTemplate,
		"question":  questionTemplate,
		"completed": completedTemplate,
	} {
		templates[name] = template.Must(template.New(name).Funcs(funcMap).Parse(pageHeader + body + pageFooter))
	}
	return templates
}

const pageHeader = `<!DOCTYPE html>
<html>
<head>
<title>StudyBuddy</title>
<style>
body { font-family: sans-serif; max-width: 720px; margin: 2em auto; padding: 0 1em; }
.warning { color: #b00; }
.correct { color: #080; }
.incorrect { color: #b00; }
.progress { background: #f4f4f4; padding: 0.5em 1em; border-radius: 6px; }
</style>
</head>
<body>
<h1>📈 StudyBuddy</h1>
`

const pageFooter = `
</body>
</html>`

const homeTemplate = `
<h2>New Quiz</h2>
<form method="post" action="/quiz/new">
  <p><label>Topic: <input name="topic" required></label></p>
  <p><label>Questions: <input name="num_items" type="number" value="5" min="3" max="15"></label></p>
  <p><label>Level:
    <select name="level">
      <option>easy</option>
      <option>medium</option>
      <option>hard</option>
    </select></label></p>
  <p><button type="submit">🎯 Generate Quiz</button></p>
</form>

{{if .Quizzes}}
<h2>Stored Quizzes</h2>
<ul>
{{range .Quizzes}}
  <li><a href="/quiz/start?id={{.ID}}">{{.Topic}}</a> ({{.Level}}, {{.NumItems}} questions)</li>
{{end}}
</ul>
{{end}}
`

const questionTemplate = `
<p class="progress">📊 {{.Attempts}} attempted, {{.Correct}} correct ({{.Accuracy}}%)</p>

{{if .Warning}}<p class="warning">⚠️ {{.Warning}}</p>{{end}}

<h2>{{.Topic}} — Question {{.Number}}/{{.Total}}</h2>
<p>{{.Question}}</p>

{{if eq .Phase "unanswered"}}
<form method="post" action="/session">
  <input type="hidden" name="action" value="submit">
  {{range $i, $opt := .Options}}
  <p><label><input type="radio" name="choice" value="{{$i}}"> {{letter $i}}. {{$opt}}</label></p>
  {{end}}
  <p><button type="submit">📤 Submit Answer</button></p>
</form>
{{else}}
  <p>Your answer: {{letter .Choice}}. {{index .Options .Choice}}</p>
  {{if .WasCorrect}}
  <p class="correct">✅ Correct!</p>
  {{else}}
  <p class="incorrect">❌ Incorrect.</p>
  {{end}}

  {{if eq .Phase "answered"}}
  <form method="post" action="/session">
    <input type="hidden" name="action" value="reveal">
    <button type="submit">🔑 Show Answer &amp; Explanation</button>
  </form>
  {{else}}
  <p><strong>Correct answer:</strong> {{letter .AnswerIndex}}. {{.AnswerText}}</p>
  {{if .Explanation}}<p>📖 {{.Explanation}}</p>{{end}}
  {{end}}

  <form method="post" action="/session">
    <input type="hidden" name="action" value="advance">
    <button type="submit">➡️ Next Question</button>
  </form>
{{end}}

<form method="post" action="/session">
  <input type="hidden" name="action" value="restart">
  <button type="submit">🔄 Restart</button>
</form>
`

const completedTemplate = `
<h2>🎉 Quiz completed!</h2>

<p class="progress">📊 {{.Attempts}} attempted, {{.Correct}} correct ({{.Accuracy}}%)</p>

{{if .Summary}}
<p>Recent answers:
{{range .Summary}}{{if .Correct}}✅{{else}}❌{{end}} ({{.Level}}) {{end}}
</p>
{{end}}

<form method="post" action="/session">
  <input type="hidden" name="action" value="restart">
  <button type="submit">🔄 Back to start</button>
</form>
`
