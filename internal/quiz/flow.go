package quiz

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jinsol-dev/persona-lab/internal/domain"
)

var (
	// ErrEmptyAnswer rejects blank submissions; the session is untouched.
	ErrEmptyAnswer = errors.New("answer is empty")
	// ErrNotInQuestion rejects answer operations outside InQuestion.
	ErrNotInQuestion = errors.New("no question in progress")
	// ErrAnalysisInFlight enforces the single-flight analysis guard.
	ErrAnalysisInFlight = errors.New("analysis already in flight")
	// ErrNotAnalyzing rejects Analyze outside Analyzing/Errored.
	ErrNotAnalyzing = errors.New("no analysis pending")
	// ErrSessionReplaced marks a stale analysis completion whose session was
	// restarted while the call was outstanding. Its result is discarded.
	ErrSessionReplaced = errors.New("session restarted during analysis")
)

// Classifier is the remote analysis backend as the flow needs it: one prompt
// in, the raw reply text out. Failures to obtain the reply at all (transport,
// unexpected envelope) are returned as errors; the flow never inspects them
// beyond propagation.
type Classifier interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Flow drives one visitor's traversal through the question bank:
// NotStarted -> InQuestion(0..last) -> Analyzing -> Resulted | Errored.
// All methods are safe for concurrent use; the classifier call itself runs
// outside the lock.
type Flow struct {
	questions  []domain.Question
	snapshots  SnapshotStore
	classifier Classifier
	now        func() time.Time

	mu         sync.Mutex
	state      State
	sess       Session
	generation uint64
	inFlight   bool
	rawReply   string
}

// NewFlow creates a flow over the given question bank. snapshots may be nil
// (no persistence); classifier must be non-nil before Analyze is reachable.
func NewFlow(questions []domain.Question, snapshots SnapshotStore, classifier Classifier) *Flow {
	return &Flow{
		questions:  questions,
		snapshots:  snapshots,
		classifier: classifier,
		now:        time.Now,
		state:      StateNotStarted,
		sess:       newSession(),
	}
}

// State returns the current flow state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Session returns a copy of the session for read-only inspection.
func (f *Flow) Session() Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotSessionLocked()
}

func (f *Flow) snapshotSessionLocked() Session {
	answers := make(map[int]string, len(f.sess.Answers))
	for k, v := range f.sess.Answers {
		answers[k] = v
	}
	return Session{Index: f.sess.Index, Answers: answers, LastResult: f.sess.LastResult}
}

// Start resets the session, clears any persisted snapshot, and shows the
// first question. A restart during an in-flight analysis bumps the
// generation so the stale completion is discarded.
func (f *Flow) Start(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.generation++
	f.sess = newSession()
	f.state = StateInQuestion
	f.rawReply = ""

	// Clear under the lock so a concurrent SubmitAnswer cannot save a fresh
	// snapshot that this clear then deletes.
	clearSnapshot(ctx, f.snapshots)
}

// Resume restores a valid persisted snapshot, returning true and entering
// InQuestion at the saved index. Without one it is a no-op welcome state and
// returns false.
func (f *Flow) Resume(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateNotStarted {
		return f.state == StateInQuestion
	}

	snap := loadSnapshot(ctx, f.snapshots, f.now(), len(f.questions))
	if snap == nil {
		return false
	}

	f.sess = newSession()
	f.sess.Index = snap.CurrentQuestionIndex
	for i, a := range snap.Answers {
		if i >= 0 && i < len(f.questions) {
			f.sess.Answers[i] = a
		}
	}
	f.state = StateInQuestion
	return true
}

// Current returns the question on display plus any previously stored answer
// for pre-filling. ok is false outside InQuestion.
func (f *Flow) Current() (index int, q domain.Question, prefill string, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateInQuestion {
		return 0, domain.Question{}, "", false
	}
	return f.sess.Index, f.questions[f.sess.Index], f.sess.Answers[f.sess.Index], true
}

// SubmitAnswer validates and stores the answer for the current question,
// persists the snapshot, and advances. At the final question it transitions
// to Analyzing instead of advancing; the caller then runs Analyze. The
// snapshot write completes before SubmitAnswer returns.
func (f *Flow) SubmitAnswer(ctx context.Context, text string) (State, error) {
	trimmed := strings.TrimSpace(text)

	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StateAnalyzing:
		return f.state, ErrAnalysisInFlight
	case StateInQuestion:
	default:
		return f.state, ErrNotInQuestion
	}

	if trimmed == "" {
		return f.state, ErrEmptyAnswer
	}

	f.sess.Answers[f.sess.Index] = trimmed

	if f.sess.Index < len(f.questions)-1 {
		f.sess.Index++
		saveSnapshot(ctx, f.snapshots, &f.sess, f.now())
		return f.state, nil
	}

	// Final answer captured: snapshot stays at the terminal index so a
	// reload before the result lands re-enters the last question.
	saveSnapshot(ctx, f.snapshots, &f.sess, f.now())
	f.state = StateAnalyzing
	return f.state, nil
}

// GoBack retreats one question without persisting (navigation only).
// It reports the new index; ok is false at index 0 or outside InQuestion.
func (f *Flow) GoBack() (index int, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateInQuestion || f.sess.Index == 0 {
		return f.sess.Index, false
	}
	f.sess.Index--
	return f.sess.Index, true
}

// Analyze invokes the classifier once over the collected answers and
// normalizes the reply. Transport/envelope failures return the error and
// leave the flow Errored with all answers retained; an unparseable reply is
// downgraded to the fallback result and still reaches Resulted. Valid from
// Analyzing (first run) and Errored (retry). A second concurrent call is
// rejected rather than fired.
func (f *Flow) Analyze(ctx context.Context) (*domain.AnalysisResult, error) {
	f.mu.Lock()
	if f.state != StateAnalyzing && f.state != StateErrored {
		f.mu.Unlock()
		return nil, ErrNotAnalyzing
	}
	if f.inFlight {
		f.mu.Unlock()
		return nil, ErrAnalysisInFlight
	}
	f.inFlight = true
	f.state = StateAnalyzing
	gen := f.generation
	answers := make(map[int]string, len(f.sess.Answers))
	for k, v := range f.sess.Answers {
		answers[k] = v
	}
	f.mu.Unlock()

	prompt := BuildPrompt(f.questions, answers)
	reply, err := f.classifier.Generate(ctx, prompt)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false

	if f.generation != gen {
		// The visitor restarted while this call was outstanding.
		return nil, ErrSessionReplaced
	}

	if err != nil {
		f.state = StateErrored
		return nil, err
	}

	parsed := ParseAnalysis(reply)
	result := parsed.Result
	f.rawReply = reply
	f.sess.LastResult = &result
	f.state = StateResulted
	clearSnapshot(ctx, f.snapshots)
	return &result, nil
}

// RawReply returns the unparsed classifier reply of the last completed
// analysis, for persistence alongside the normalized result.
func (f *Flow) RawReply() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rawReply
}

// AnswerEntry pairs a question with the visitor's stored answer.
type AnswerEntry struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AnswerSheet returns the question/answer pairs from held state only; no
// re-fetching. Unanswered questions appear with an empty answer.
func (f *Flow) AnswerSheet() []AnswerEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries := make([]AnswerEntry, len(f.questions))
	for i, q := range f.questions {
		entries[i] = AnswerEntry{Index: i, Question: q.Prompt, Answer: f.sess.Answers[i]}
	}
	return entries
}

// Manager owns one Flow per session slot. Slots are keyed by visitor and tab
// so concurrent tabs get independent in-memory sessions; they still share the
// persisted snapshot slot per visitor+tab key (last write wins, accepted).
type Manager struct {
	mu         sync.Mutex
	flows      map[string]*Flow
	questions  []domain.Question
	classifier Classifier
	backend    SnapshotBackend
}

// NewManager creates a manager over the standard question bank.
func NewManager(classifier Classifier, backend SnapshotBackend) *Manager {
	return &Manager{
		flows:      make(map[string]*Flow),
		questions:  Questions(),
		classifier: classifier,
		backend:    backend,
	}
}

// Flow returns the flow for a visitor+tab, creating it on first use.
func (m *Manager) Flow(visitorID, tabID string) *Flow {
	key := visitorID + "/" + tabID

	m.mu.Lock()
	defer m.mu.Unlock()

	if fl, ok := m.flows[key]; ok {
		return fl
	}
	var store SnapshotStore
	if m.backend != nil {
		store = keyedStore{backend: m.backend, key: key}
	}
	fl := NewFlow(m.questions, store, m.classifier)
	m.flows[key] = fl
	return fl
}

// Drop removes a visitor+tab flow from memory, e.g. after long inactivity.
// The persisted snapshot is untouched so the session can still resume.
func (m *Manager) Drop(visitorID, tabID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, visitorID+"/"+tabID)
}
