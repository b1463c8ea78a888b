package common

import (
	"strings"
	"testing"
)

func TestShuffleAnswers(t *testing.T) {
	tests := []struct {
		quizQuestion  QuizQuestion
		correctAnswer string
	}{
		{
			quizQuestion: QuizQuestion{
				Question: "question 0",
				Answers:  []string{"zero", "one", "two", "three"},
				Correct:  2,
			},
			correctAnswer: "two",
		},
		{
			quizQuestion: QuizQuestion{
				Question: "question 1",
				Answers:  []string{"hello", "world", "my", "name"},
				Correct:  0,
			},
			correctAnswer: "hello",
		},
		{
			quizQuestion: QuizQuestion{
				Question: "question 2",
				Answers:  []string{"wrong 0", "wrong 1", "wrong 2", "correct"},
				Correct:  3,
			},
			correctAnswer: "correct",
		},
	}

	for _, test := range tests {
		shuffled := test.quizQuestion.ShuffleAnswers()
		if test.correctAnswer != shuffled.Answers[shuffled.Correct] {
			t.Errorf("expected correct answer of %s but got %s", test.correctAnswer, shuffled.Answers[shuffled.Correct])
		}
		if len(shuffled.Answers) != len(test.quizQuestion.Answers) {
			t.Errorf("expected %d answers but got %d", len(test.quizQuestion.Answers), len(shuffled.Answers))
		}
		if test.quizQuestion.Answers[test.quizQuestion.Correct] != test.correctAnswer {
			t.Errorf("original question was mutated: %v", test.quizQuestion)
		}
	}
}

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		question    QuizQuestion
		expectError bool
	}{
		{QuizQuestion{Question: "ok", Answers: []string{"a", "b"}, Correct: 1}, false},
		{QuizQuestion{Question: "one answer", Answers: []string{"a"}, Correct: 0}, true},
		{QuizQuestion{Question: "no answers", Answers: nil, Correct: 0}, true},
		{QuizQuestion{Question: "negative", Answers: []string{"a", "b"}, Correct: -1}, true},
		{QuizQuestion{Question: "too big", Answers: []string{"a", "b"}, Correct: 2}, true},
	}

	for _, test := range tests {
		err := test.question.Validate()
		if test.expectError && err == nil {
			t.Errorf("expected an error validating %q but got none", test.question.Question)
		}
		if !test.expectError && err != nil {
			t.Errorf("expected %q to validate but got %v", test.question.Question, err)
		}
	}
}

func TestUnmarshalBanks(t *testing.T) {
	payload := `[
		{"id":1,"name":"first","questions":[{"question":"q","answers":["a","b"],"correct":1}]},
		{"id":2,"name":"second","questions":[]}
	]`

	banks, err := UnmarshalBanks(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error unmarshaling banks: %v", err)
	}
	if len(banks) != 2 {
		t.Fatalf("expected 2 banks but got %d", len(banks))
	}
	if banks[0].Name != "first" {
		t.Errorf("expected bank name %q but got %q", "first", banks[0].Name)
	}
	if banks[0].NumQuestions() != 1 {
		t.Errorf("expected 1 question but got %d", banks[0].NumQuestions())
	}
	if err := banks[0].Validate(); err != nil {
		t.Errorf("expected the first bank to validate but got %v", err)
	}

	if _, err := UnmarshalBank(strings.NewReader("not json")); err == nil {
		t.Error("expected an error unmarshaling invalid JSON")
	}
}

func TestBankGetQuestion(t *testing.T) {
	bank := QuizBank{
		Questions: []QuizQuestion{
			{Question: "only", Answers: []string{"a", "b"}, Correct: 0},
		},
	}

	if _, err := bank.GetQuestion(0); err != nil {
		t.Errorf("unexpected error getting question 0: %v", err)
	}
	for _, i := range []int{-1, 1, 5} {
		if _, err := bank.GetQuestion(i); err == nil {
			t.Errorf("expected an error getting question %d", i)
		}
	}
}
