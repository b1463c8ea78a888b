package common

import "math/rand"

// AnswerRecord is created the moment a question is answered and is
// never overwritten - re-answering is rejected instead.
type AnswerRecord struct {
	SelectedIndex int `json:"selectedindex"`
	CorrectIndex  int `json:"correctindex"`
}

// AnswerOutcome is handed back from Answer so the caller can render
// feedback without a second query.
type AnswerOutcome struct {
	Correct      bool `json:"correct"`
	CorrectIndex int  `json:"correctindex"`
}

// QuestionView is a read-only projection of the active question for a
// rendering layer. CorrectIndex is always populated; whether to reveal
// it before the question is answered is the renderer's decision.
// SelectedIndex is -1 until the question is answered.
type QuestionView struct {
	Position      int      `json:"position"`
	Total         int      `json:"total"`
	Question      string   `json:"question"`
	Answers       []string `json:"answers"`
	Answered      bool     `json:"answered"`
	SelectedIndex int      `json:"selectedindex"`
	CorrectIndex  int      `json:"correctindex"`
	CanGoPrev     bool     `json:"cangoprev"`
	CanGoNext     bool     `json:"cangonext"`
	Score         int      `json:"score"`
}

// QuizSession holds the state of a single play-through of a question
// bank: a shuffled question order, the active position, one answer
// record per answered question, and the running score.
//
// Every operation completes synchronously and either succeeds or
// returns a typed error with the session left exactly as it was.
// A session is meant to be driven by one actor at a time; the
// single-shot Answer guard turns a racing second click into a rejected
// call rather than a corrupted score.
type QuizSession struct {
	order        []QuizQuestion
	currentIndex int
	answers      map[int]AnswerRecord
	score        int
	rng          *rand.Rand
}

// NewQuizSession returns an unstarted session. A nil rng gives a
// time-seeded shuffle; tests pass a seeded one for determinism.
func NewQuizSession(rng *rand.Rand) *QuizSession {
	return &QuizSession{rng: rng}
}

// Start begins a fresh play-through of bank: the questions are
// shuffled into a new order, the position returns to the first
// question, and all answers and the score are discarded. Starting an
// already-started session is the restart operation.
func (s *QuizSession) Start(bank QuizBank) error {
	if bank.NumQuestions() == 0 {
		return NewEmptyBankError(bank.Name)
	}

	s.order = ShuffleQuestions(bank.Questions, s.rng)
	s.currentIndex = 0
	s.answers = make(map[int]AnswerRecord)
	s.score = 0
	return nil
}

// Started reports whether Start has succeeded at least once.
func (s *QuizSession) Started() bool {
	return len(s.order) > 0
}

func (s *QuizSession) NumQuestions() int {
	return len(s.order)
}

func (s *QuizSession) Score() int {
	return s.score
}

// NumAnswered returns the number of questions answered so far.
func (s *QuizSession) NumAnswered() int {
	return len(s.answers)
}

// Questions returns a copy of the session's shuffled question order.
func (s *QuizSession) Questions() []QuizQuestion {
	order := make([]QuizQuestion, len(s.order))
	copy(order, s.order)
	return order
}

// Records returns a copy of the answer records keyed by question
// position.
func (s *QuizSession) Records() map[int]AnswerRecord {
	records := make(map[int]AnswerRecord, len(s.answers))
	for k, v := range s.answers {
		records[k] = v
	}
	return records
}

// CurrentView projects the active question. It never mutates the
// session.
func (s *QuizSession) CurrentView() (QuestionView, error) {
	if !s.Started() {
		return QuestionView{}, NewNotStartedError()
	}

	question := s.order[s.currentIndex]
	view := QuestionView{
		Position:      s.currentIndex,
		Total:         len(s.order),
		Question:      question.Question,
		Answers:       question.Answers,
		Answered:      false,
		SelectedIndex: -1,
		CorrectIndex:  question.Correct,
		CanGoPrev:     s.currentIndex > 0,
		CanGoNext:     s.currentIndex < len(s.order)-1,
		Score:         s.score,
	}
	if record, ok := s.answers[s.currentIndex]; ok {
		view.Answered = true
		view.SelectedIndex = record.SelectedIndex
	}
	return view, nil
}

// Answer records the player's choice for the active question. Each
// question accepts exactly one answer; a second attempt fails with
// AlreadyAnsweredError and an out-of-range choice fails with
// InvalidOptionError, neither of which changes any state.
func (s *QuizSession) Answer(selected int) (AnswerOutcome, error) {
	if !s.Started() {
		return AnswerOutcome{}, NewNotStartedError()
	}

	question := s.order[s.currentIndex]
	if selected < 0 || selected >= question.NumAnswers() {
		return AnswerOutcome{}, NewInvalidOptionError(selected, question.NumAnswers())
	}
	if _, ok := s.answers[s.currentIndex]; ok {
		return AnswerOutcome{}, NewAlreadyAnsweredError(s.currentIndex)
	}

	s.answers[s.currentIndex] = AnswerRecord{
		SelectedIndex: selected,
		CorrectIndex:  question.Correct,
	}

	correct := selected == question.Correct
	if correct {
		s.score++
	}
	return AnswerOutcome{
		Correct:      correct,
		CorrectIndex: question.Correct,
	}, nil
}

// GoNext advances to the next question. At the last question it is a
// no-op, mirroring a disabled next button.
func (s *QuizSession) GoNext() error {
	if !s.Started() {
		return NewNotStartedError()
	}
	if s.currentIndex < len(s.order)-1 {
		s.currentIndex++
	}
	return nil
}

// GoPrev moves back one question. At the first question it is a no-op.
func (s *QuizSession) GoPrev() error {
	if !s.Started() {
		return NewNotStartedError()
	}
	if s.currentIndex > 0 {
		s.currentIndex--
	}
	return nil
}

// JumpTo moves to the question with the given 1-based number. Numbers
// outside [1, NumQuestions] fail with InvalidJumpTargetError carrying
// the valid range.
func (s *QuizSession) JumpTo(number int) error {
	if !s.Started() {
		return NewNotStartedError()
	}
	if number < 1 || number > len(s.order) {
		return NewInvalidJumpTargetError(number, 1, len(s.order))
	}
	s.currentIndex = number - 1
	return nil
}
