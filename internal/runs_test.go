package internal

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/khoh/go-quizrunner/internal/common"
	"github.com/khoh/go-quizrunner/internal/shutdown"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	shutdown.InitShutdownHandler()
	os.Exit(m.Run())
}

func testRuns(t *testing.T) (*Runs, common.QuizBank) {
	t.Helper()
	log := zap.NewNop().Sugar()

	banks, err := InitBanks(nil, log)
	if err != nil {
		t.Fatalf("unexpected error initializing banks: %v", err)
	}
	bank, err := banks.Add(common.QuizBank{
		Name: "capitals",
		Questions: []common.QuizQuestion{
			{Question: "capital of France?", Answers: []string{"Paris", "Lyon"}, Correct: 0},
			{Question: "capital of Japan?", Answers: []string{"Osaka", "Tokyo"}, Correct: 1},
			{Question: "capital of Peru?", Answers: []string{"Lima", "Cusco", "Arequipa"}, Correct: 0},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error adding bank: %v", err)
	}

	return InitRuns(banks, 0, false, log), bank
}

func TestRunLifecycle(t *testing.T) {
	runs, bank := testRuns(t)

	view, err := runs.Start("player-1", bank.Id)
	if err != nil {
		t.Fatalf("unexpected error starting run: %v", err)
	}
	if view.Total != 3 {
		t.Errorf("expected 3 questions but got %d", view.Total)
	}
	if view.Position != 0 {
		t.Errorf("expected position 0 but got %d", view.Position)
	}

	outcome, err := runs.Answer("player-1", view.CorrectIndex)
	if err != nil {
		t.Fatalf("unexpected error answering: %v", err)
	}
	if !outcome.Correct {
		t.Error("expected a correct outcome")
	}

	var already *common.AlreadyAnsweredError
	if _, err := runs.Answer("player-1", 0); !errors.As(err, &already) {
		t.Errorf("expected AlreadyAnsweredError but got %v", err)
	}

	view, err = runs.Next("player-1")
	if err != nil {
		t.Fatalf("unexpected error on next: %v", err)
	}
	if view.Position != 1 {
		t.Errorf("expected position 1 but got %d", view.Position)
	}

	view, err = runs.Jump("player-1", 3)
	if err != nil {
		t.Fatalf("unexpected error on jump: %v", err)
	}
	if view.Position != 2 {
		t.Errorf("expected position 2 but got %d", view.Position)
	}

	var jumpErr *common.InvalidJumpTargetError
	if _, err := runs.Jump("player-1", 9); !errors.As(err, &jumpErr) {
		t.Fatalf("expected InvalidJumpTargetError but got %v", err)
	}
	if jumpErr.Min != 1 || jumpErr.Max != 3 {
		t.Errorf("expected valid range [1,3] but got [%d,%d]", jumpErr.Min, jumpErr.Max)
	}

	summary, err := runs.Get("player-1")
	if err != nil {
		t.Fatalf("unexpected error getting run summary: %v", err)
	}
	if summary.Score != 1 {
		t.Errorf("expected a score of 1 but got %d", summary.Score)
	}
	if summary.Answered != 1 {
		t.Errorf("expected 1 answered question but got %d", summary.Answered)
	}
	if summary.BankName != "capitals" {
		t.Errorf("expected bank name %q but got %q", "capitals", summary.BankName)
	}
}

func TestRunWithoutStart(t *testing.T) {
	runs, _ := testRuns(t)

	var noRun *NoActiveRunError
	if _, err := runs.Answer("ghost", 0); !errors.As(err, &noRun) {
		t.Errorf("expected NoActiveRunError from Answer but got %v", err)
	}
	if _, err := runs.View("ghost"); !errors.As(err, &noRun) {
		t.Errorf("expected NoActiveRunError from View but got %v", err)
	}
	if _, err := runs.Next("ghost"); !errors.As(err, &noRun) {
		t.Errorf("expected NoActiveRunError from Next but got %v", err)
	}
}

func TestRunStartUnknownBank(t *testing.T) {
	runs, _ := testRuns(t)

	if _, err := runs.Start("player-1", 999); err == nil {
		t.Error("expected an error starting a run on an unknown bank")
	}
	if len(runs.GetAll()) != 0 {
		t.Errorf("expected no runs after a failed start but got %d", len(runs.GetAll()))
	}
}

func TestRunRestartResetsProgress(t *testing.T) {
	runs, bank := testRuns(t)

	view, _ := runs.Start("player-1", bank.Id)
	runs.Answer("player-1", view.CorrectIndex)
	runs.Next("player-1")

	view, err := runs.Start("player-1", bank.Id)
	if err != nil {
		t.Fatalf("unexpected error restarting: %v", err)
	}
	if view.Position != 0 {
		t.Errorf("expected position 0 after restart but got %d", view.Position)
	}
	if view.Score != 0 {
		t.Errorf("expected a score of 0 after restart but got %d", view.Score)
	}
	if view.Answered {
		t.Error("first question should be unanswered after restart")
	}
}

func TestRunExpiry(t *testing.T) {
	runs, bank := testRuns(t)
	runs.runTimeout = time.Hour

	if _, err := runs.Start("idler", bank.Id); err != nil {
		t.Fatalf("unexpected error starting run: %v", err)
	}
	if _, err := runs.Start("active", bank.Id); err != nil {
		t.Fatalf("unexpected error starting run: %v", err)
	}

	runs.mutex.Lock()
	runs.all["idler"].lastSeen = time.Now().Add(-2 * time.Hour)
	runs.mutex.Unlock()

	runs.expireRuns()

	var noRun *NoActiveRunError
	if _, err := runs.Get("idler"); !errors.As(err, &noRun) {
		t.Errorf("expected the idle run to be expired but got %v", err)
	}
	if _, err := runs.Get("active"); err != nil {
		t.Errorf("expected the active run to survive but got %v", err)
	}
}

func TestRunAnswerShuffling(t *testing.T) {
	log := zap.NewNop().Sugar()
	banks, _ := InitBanks(nil, log)
	bank, _ := banks.Add(common.QuizBank{
		Name: "one",
		Questions: []common.QuizQuestion{
			{Question: "q", Answers: []string{"right", "wrong a", "wrong b", "wrong c"}, Correct: 0},
		},
	})

	runs := InitRuns(banks, 0, true, log)
	view, err := runs.Start("player-1", bank.Id)
	if err != nil {
		t.Fatalf("unexpected error starting run: %v", err)
	}

	// wherever the options landed, the correct index must still point
	// at the correct option
	if view.Answers[view.CorrectIndex] != "right" {
		t.Errorf("expected correct index to follow the correct option but got %q", view.Answers[view.CorrectIndex])
	}

	outcome, err := runs.Answer("player-1", view.CorrectIndex)
	if err != nil {
		t.Fatalf("unexpected error answering: %v", err)
	}
	if !outcome.Correct {
		t.Error("expected a correct outcome after selecting the shuffled correct option")
	}
}
