package quiz

import (
	"github.com/jinsol-dev/persona-lab/internal/domain"
)

// State enumerates the quiz flow states. Transitions are owned by Flow;
// illegal operations for a state are rejected, never silently absorbed.
type State int

const (
	// StateNotStarted is the welcome state: no question shown, no answers.
	StateNotStarted State = iota
	// StateInQuestion means a question is displayed and awaiting an answer.
	StateInQuestion
	// StateAnalyzing is the transient state between the final accepted
	// answer and the classifier's reply.
	StateAnalyzing
	// StateResulted is terminal: a normalized result is attached.
	StateResulted
	// StateErrored is terminal for the run but retains all answers so the
	// analysis can be retried without re-prompting.
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInQuestion:
		return "in_question"
	case StateAnalyzing:
		return "analyzing"
	case StateResulted:
		return "resulted"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Session is the mutable per-run state. One Session per (visitor, tab);
// there are no concurrent writers besides the owning Flow.
type Session struct {
	Index      int
	Answers    map[int]string
	LastResult *domain.AnalysisResult
}

func newSession() Session {
	return Session{Answers: make(map[int]string)}
}

// AnswerCount returns how many questions have stored answers.
func (s Session) AnswerCount() int {
	return len(s.Answers)
}
