package internal

import (
	"fmt"
	"sync"
	"time"

	"github.com/khoh/go-quizrunner/internal/common"
	"github.com/khoh/go-quizrunner/internal/shutdown"
	"go.uber.org/zap"
)

const reaperInterval = 60 * time.Second

// NoActiveRunError indicates that a player issued a play command
// without starting a run first.
type NoActiveRunError struct {
	PlayerID string
}

func (e *NoActiveRunError) Error() string {
	return fmt.Sprintf("player %s has no active run", e.PlayerID)
}

func NewNoActiveRunError(playerid string) *NoActiveRunError {
	return &NoActiveRunError{PlayerID: playerid}
}

// run pairs a live session with bookkeeping for the reaper and the
// admin surface.
type run struct {
	session  *common.QuizSession
	bankID   int
	bankName string
	lastSeen time.Time
}

// Runs holds one live QuizSession per player id. All play operations
// funnel through here; the mutex serializes them so each session only
// ever sees one actor. Runs are deliberately memory-only - they do not
// survive a restart.
type Runs struct {
	mutex          sync.RWMutex
	all            map[string]*run
	banks          *Banks
	runTimeout     time.Duration
	shuffleAnswers bool
	log            *zap.SugaredLogger
}

func InitRuns(banks *Banks, runTimeoutSeconds int, shuffleAnswers bool, log *zap.SugaredLogger) *Runs {
	runs := &Runs{
		all:            make(map[string]*run),
		banks:          banks,
		runTimeout:     time.Duration(runTimeoutSeconds) * time.Second,
		shuffleAnswers: shuffleAnswers,
		log:            log,
	}

	go func() {
		ctx := shutdown.Context()
		ticker := time.NewTicker(reaperInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info("shutting down run reaper")
				shutdown.NotifyShutdownComplete()
				return
			case <-ticker.C:
				runs.expireRuns()
			}
		}
	}()

	return runs
}

// Start begins a new run of the given bank for the player, replacing
// any run in progress. The returned view shows the first question.
func (r *Runs) Start(playerid string, bankid int) (common.QuestionView, error) {
	bank, err := r.banks.Get(bankid)
	if err != nil {
		return common.QuestionView{}, err
	}

	if r.shuffleAnswers {
		shuffled := make([]common.QuizQuestion, len(bank.Questions))
		for i, q := range bank.Questions {
			shuffled[i] = q.ShuffleAnswers()
		}
		bank.Questions = shuffled
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	active, ok := r.all[playerid]
	if !ok {
		active = &run{session: common.NewQuizSession(nil)}
		r.all[playerid] = active
	}

	if err := active.session.Start(bank); err != nil {
		if !active.session.Started() {
			delete(r.all, playerid)
		}
		return common.QuestionView{}, err
	}

	active.bankID = bank.Id
	active.bankName = bank.Name
	active.lastSeen = time.Now()

	r.log.Infow("run started", "player", playerid, "bank", bank.Name, "questions", bank.NumQuestions())
	return active.session.CurrentView()
}

// View returns the current question projection without side effects.
func (r *Runs) View(playerid string) (common.QuestionView, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	active, err := r.get(playerid)
	if err != nil {
		return common.QuestionView{}, err
	}
	return active.session.CurrentView()
}

// Answer records the player's choice on the active question.
func (r *Runs) Answer(playerid string, selected int) (common.AnswerOutcome, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	active, err := r.get(playerid)
	if err != nil {
		return common.AnswerOutcome{}, err
	}
	return active.session.Answer(selected)
}

// Next advances the player's run one question and returns the new view.
func (r *Runs) Next(playerid string) (common.QuestionView, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	active, err := r.get(playerid)
	if err != nil {
		return common.QuestionView{}, err
	}
	if err := active.session.GoNext(); err != nil {
		return common.QuestionView{}, err
	}
	return active.session.CurrentView()
}

// Prev moves the player's run back one question and returns the new
// view.
func (r *Runs) Prev(playerid string) (common.QuestionView, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	active, err := r.get(playerid)
	if err != nil {
		return common.QuestionView{}, err
	}
	if err := active.session.GoPrev(); err != nil {
		return common.QuestionView{}, err
	}
	return active.session.CurrentView()
}

// Jump moves the player's run to the 1-based question number and
// returns the new view.
func (r *Runs) Jump(playerid string, number int) (common.QuestionView, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	active, err := r.get(playerid)
	if err != nil {
		return common.QuestionView{}, err
	}
	if err := active.session.JumpTo(number); err != nil {
		return common.QuestionView{}, err
	}
	return active.session.CurrentView()
}

// get fetches the player's run and refreshes its activity stamp. The
// caller must hold the mutex.
func (r *Runs) get(playerid string) (*run, error) {
	active, ok := r.all[playerid]
	if !ok {
		return nil, NewNoActiveRunError(playerid)
	}
	active.lastSeen = time.Now()
	return active, nil
}

// GetAll returns summaries of every live run, for the admin surface.
func (r *Runs) GetAll() []common.RunSummary {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	summaries := make([]common.RunSummary, 0, len(r.all))
	for playerid, active := range r.all {
		summaries = append(summaries, summarize(playerid, active))
	}
	return summaries
}

// Get returns the summary of a single run, for the admin surface.
func (r *Runs) Get(playerid string) (common.RunSummary, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	active, ok := r.all[playerid]
	if !ok {
		return common.RunSummary{}, NewNoActiveRunError(playerid)
	}
	return summarize(playerid, active), nil
}

func (r *Runs) Delete(playerid string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.all, playerid)
}

// expireRuns drops runs that have been idle past the timeout. A zero
// timeout disables expiry.
func (r *Runs) expireRuns() {
	if r.runTimeout <= 0 {
		return
	}

	cutoff := time.Now().Add(-r.runTimeout)

	r.mutex.Lock()
	defer r.mutex.Unlock()
	for playerid, active := range r.all {
		if active.lastSeen.Before(cutoff) {
			delete(r.all, playerid)
			r.log.Infow("expired idle run", "player", playerid, "bank", active.bankName)
		}
	}
}

func summarize(playerid string, active *run) common.RunSummary {
	return common.RunSummary{
		PlayerID: playerid,
		BankID:   active.bankID,
		BankName: active.bankName,
		Total:    active.session.NumQuestions(),
		Answered: active.session.NumAnswered(),
		Score:    active.session.Score(),
		LastSeen: active.lastSeen,
	}
}
