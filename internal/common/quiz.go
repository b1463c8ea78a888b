package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
)

type QuizQuestion struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
	Correct  int      `json:"correct"`
}

func (q QuizQuestion) NumAnswers() int {
	return len(q.Answers)
}

// Validate checks the bank-record invariants: at least two answer
// options and a correct index that points at one of them.
func (q QuizQuestion) Validate() error {
	if len(q.Answers) < 2 {
		return fmt.Errorf("question %q needs at least 2 answers, got %d", q.Question, len(q.Answers))
	}
	if q.Correct < 0 || q.Correct >= len(q.Answers) {
		return fmt.Errorf("question %q has correct index %d outside [0,%d)", q.Question, q.Correct, len(q.Answers))
	}
	return nil
}

// ShuffleAnswers returns a copy of the question with its answer options
// in random order and the correct index remapped to follow the correct
// option. The receiver is left untouched.
func (q QuizQuestion) ShuffleAnswers() QuizQuestion {
	shuffled := QuizQuestion{
		Question: q.Question,
		Answers:  make([]string, len(q.Answers)),
		Correct:  q.Correct,
	}
	copy(shuffled.Answers, q.Answers)

	for i := len(shuffled.Answers) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		shuffled.Answers[i], shuffled.Answers[j] = shuffled.Answers[j], shuffled.Answers[i]
		switch shuffled.Correct {
		case i:
			shuffled.Correct = j
		case j:
			shuffled.Correct = i
		}
	}
	return shuffled
}

type QuizBank struct {
	Id        int            `json:"id"`
	Name      string         `json:"name"`
	Questions []QuizQuestion `json:"questions"`
}

func (b QuizBank) NumQuestions() int {
	return len(b.Questions)
}

func (b QuizBank) GetQuestion(i int) (QuizQuestion, error) {
	if i < 0 || i >= len(b.Questions) {
		return QuizQuestion{}, fmt.Errorf("%d is an invalid question index", i)
	}
	return b.Questions[i], nil
}

// Validate checks every question in the bank.
func (b QuizBank) Validate() error {
	for i, q := range b.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("bank %q question %d: %w", b.Name, i, err)
		}
	}
	return nil
}

func (b QuizBank) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(b); err != nil {
		return nil, fmt.Errorf("error converting bank to JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// Ingests a single QuizBank object in JSON
func UnmarshalBank(r io.Reader) (QuizBank, error) {
	dec := json.NewDecoder(r)
	var bank QuizBank
	if err := dec.Decode(&bank); err != nil {
		return QuizBank{}, err
	}
	return bank, nil
}

// Ingests an array of QuizBank objects in JSON
func UnmarshalBanks(r io.Reader) ([]QuizBank, error) {
	dec := json.NewDecoder(r)
	var banks []QuizBank
	if err := dec.Decode(&banks); err != nil {
		return nil, err
	}
	return banks, nil
}
