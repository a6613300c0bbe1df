package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"investor-education/internal/education"
	"investor-education/internal/learnhub"
)

var educationCommands = []subcommands.Command{
	&lessonsCmd{},
	&lessonCmd{},
	&doneCmd{},
	&quizCmd{},
	&leaderboardCmd{},
	&riskCmd{},
	&dashboardCmd{},
	&certificateCmd{},
	&resourcesCmd{},
	&learnCmd{},
}

type lessonsCmd struct{}

func (*lessonsCmd) Name() string             { return "lessons" }
func (*lessonsCmd) Synopsis() string         { return "list lessons and your progress" }
func (*lessonsCmd) Usage() string            { return "lessons\n" }
func (*lessonsCmd) SetFlags(*flag.FlagSet) {}

func (*lessonsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	progress := a.sess.Snapshot().Progress
	var b strings.Builder
	fmt.Fprintf(&b, "# Lessons (%d/%d done)\n\n", education.CountCompleted(progress), len(education.Lessons()))
	for _, l := range education.Lessons() {
		mark := " "
		if progress[l.Key] {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] **%s** `%s`\n", mark, l.Title, l.Key)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type lessonCmd struct{}

func (*lessonCmd) Name() string             { return "lesson" }
func (*lessonCmd) Synopsis() string         { return "read one lesson" }
func (*lessonCmd) Usage() string            { return "lesson <key>\n" }
func (*lessonCmd) SetFlags(*flag.FlagSet) {}

func (*lessonCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected a lesson key")
		return subcommands.ExitUsageError
	}
	l, err := education.FindLesson(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(l.Markdown())
	return subcommands.ExitSuccess
}

type doneCmd struct{}

func (*doneCmd) Name() string             { return "done" }
func (*doneCmd) Synopsis() string         { return "mark a lesson as completed" }
func (*doneCmd) Usage() string            { return "done <key>\n" }
func (*doneCmd) SetFlags(*flag.FlagSet) {}

func (*doneCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected a lesson key")
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if err := a.sess.CompleteLesson(f.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := a.save(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Marked %s as completed.\n", f.Arg(0))
	return subcommands.ExitSuccess
}

type quizCmd struct {
	answers string
	name    string
}

func (*quizCmd) Name() string     { return "quiz" }
func (*quizCmd) Synopsis() string { return "show the quiz, or grade answers with -a" }
func (*quizCmd) Usage() string {
	return `quiz [-a 2,3,2,2,3] [-name <leaderboard name>]

  Without -a, prints the questions. Answers are option numbers starting at 1;
  leave an entry blank or "-" to skip it.
`
}

func (c *quizCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.answers, "a", "", "comma-separated option numbers, one per question")
	f.StringVar(&c.name, "name", "", "add the score to the leaderboard under this name")
}

func (c *quizCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.answers == "" {
		var b strings.Builder
		b.WriteString("# Quiz\n\n")
		for i, q := range education.QuizQuestions() {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q.Prompt)
			for j, o := range q.Options {
				fmt.Fprintf(&b, "    %d. %s\n", j+1, o)
			}
		}
		printMarkdown(b.String())
		return subcommands.ExitSuccess
	}

	answers, err := parseAnswers(c.answers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	out, err := a.sess.RecordQuiz(ctx, answers, c.name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := a.save(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Score: %d/%d\n\n", out.Score, out.Total)
	for _, fb := range out.Feedback {
		fmt.Fprintf(&b, "- %s\n", fb.Message)
	}
	if out.NewBest {
		b.WriteString("\nNew best score!\n")
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type leaderboardCmd struct{}

func (*leaderboardCmd) Name() string             { return "leaderboard" }
func (*leaderboardCmd) Synopsis() string         { return "show the top quiz scores" }
func (*leaderboardCmd) Usage() string            { return "leaderboard\n" }
func (*leaderboardCmd) SetFlags(*flag.FlagSet) {}

func (*leaderboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	board := a.sess.Leaderboard()
	var b strings.Builder
	b.WriteString("# Leaderboard\n\n")
	if len(board) == 0 {
		b.WriteString("No scores yet.\n")
	} else {
		b.WriteString("| Rank | Name | Score |\n|---:|---|---:|\n")
		for i, e := range board {
			fmt.Fprintf(&b, "| %d | %s | %d |\n", i+1, e.Name, e.Score)
		}
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type riskCmd struct {
	answers string
}

func (*riskCmd) Name() string     { return "risk" }
func (*riskCmd) Synopsis() string { return "show the risk questionnaire, or profile yourself with -a" }
func (*riskCmd) Usage() string {
	return `risk [-a 4,3,3,2]

  Answers are option numbers starting at 1.
`
}

func (c *riskCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.answers, "a", "", "comma-separated option numbers, one per question")
}

func (c *riskCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.answers == "" {
		var b strings.Builder
		b.WriteString("# Risk profile\n\n")
		for i, q := range education.RiskQuestions() {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q.Prompt)
			for j, o := range q.Options {
				fmt.Fprintf(&b, "    %d. %s\n", j+1, o)
			}
		}
		printMarkdown(b.String())
		return subcommands.ExitSuccess
	}

	answers, err := parseAnswers(c.answers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	r := a.sess.SetRiskProfile(answers)
	if err := a.save(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(fmt.Sprintf("# %s (score %d)\n\n%s\n", r.Profile, r.Score, r.Recommendation))
	return subcommands.ExitSuccess
}

type dashboardCmd struct{}

func (*dashboardCmd) Name() string             { return "dashboard" }
func (*dashboardCmd) Synopsis() string         { return "summarize progress, badges and risk profile" }
func (*dashboardCmd) Usage() string            { return "dashboard\n" }
func (*dashboardCmd) SetFlags(*flag.FlagSet) {}

func (*dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	d := a.sess.Dashboard()
	badges := "none yet"
	if len(d.Badges) > 0 {
		badges = strings.Join(d.Badges, ", ")
	}
	printMarkdown(fmt.Sprintf(`# Dashboard

- **Lessons:** %d/%d
- **Best quiz score:** %d/%d
- **Risk profile:** %s
- **Badges:** %s

%s
`, d.LessonsCompleted, d.TotalLessons, d.BestScore, d.TotalQuestions, d.RiskProfile, badges, d.Strengths))
	return subcommands.ExitSuccess
}

type certificateCmd struct {
	out string
}

func (*certificateCmd) Name() string     { return "certificate" }
func (*certificateCmd) Synopsis() string { return "write your completion certificate" }
func (*certificateCmd) Usage() string {
	return `certificate [-o <file>]

  Available once your best quiz score is at least 4.
`
}

func (c *certificateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "certificate.txt", "output path")
}

func (c *certificateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	text, ok := a.sess.Certificate()
	if !ok {
		fmt.Fprintf(os.Stderr, "Score at least %d on the quiz to earn a certificate.\n", education.CertificateScore)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(c.out, []byte(text+"\n"), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Wrote %s\n", c.out)
	return subcommands.ExitSuccess
}

type resourcesCmd struct{}

func (*resourcesCmd) Name() string             { return "resources" }
func (*resourcesCmd) Synopsis() string         { return "list official investor-education links" }
func (*resourcesCmd) Usage() string            { return "resources\n" }
func (*resourcesCmd) SetFlags(*flag.FlagSet) {}

func (*resourcesCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	var b strings.Builder
	b.WriteString("# Resources\n\n")
	for _, r := range education.Resources() {
		fmt.Fprintf(&b, "- [%s](%s)\n", r.Title, r.URL)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type learnCmd struct {
	url       string
	text      string
	lang      string
	sentences int
	raw       bool
}

func (*learnCmd) Name() string     { return "learn" }
func (*learnCmd) Synopsis() string { return "summarize and translate an article (Learn Hub)" }
func (*learnCmd) Usage() string {
	return `learn [-url <url> | -text <text>] [-lang hi|bn|ta] [-n <sentences>] [-raw]

  Fetches the page (or uses the text), summarizes it and translates it.
  Translation needs GEMINI_API_KEY.
`
}

func (c *learnCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.url, "url", "", "article URL")
	f.StringVar(&c.text, "text", "", "text to translate instead of a URL")
	f.StringVar(&c.lang, "lang", "hi", "target language: hi, bn or ta")
	f.IntVar(&c.sentences, "n", learnhub.DefaultSentences, "summary length in sentences (3-10)")
	f.BoolVar(&c.raw, "raw", false, "translate the text without summarizing it")
}

func (c *learnCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	hub := learnhub.NewFromConfig(ctx, a.cfg.LearnHub, a.log)
	defer hub.Close()

	res, err := hub.Process(ctx, learnhub.Request{
		URL:       c.url,
		Text:      c.text,
		Lang:      c.lang,
		Summarize: !c.raw,
		Sentences: c.sentences,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(fmt.Sprintf("## Original\n\n%s\n\n## %s\n\n%s\n",
		res.Original, learnhub.Languages[res.Lang], res.Translated))
	return subcommands.ExitSuccess
}
