package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/models/dtos"
	gormModels "trainingorg/quizdesk/internal/models/gorm"
)

func sampleQuizRequest(published bool) dtos.QuizRequest {
	return dtos.QuizRequest{
		Title:       "Colours",
		IsPublished: published,
		Questions: []dtos.QuestionRequest{
			{Prompt: "Sky?", Options: []dtos.OptionRequest{{Text: "Blue", IsCorrect: true}, {Text: "Green"}}},
			{Prompt: "Primary colours?", Options: []dtos.OptionRequest{
				{Text: "Red", IsCorrect: true}, {Text: "Yellow", IsCorrect: true}, {Text: "Purple"},
			}},
			{Prompt: "Grass?", Options: []dtos.OptionRequest{{Text: "Green", IsCorrect: true}, {Text: "Pink"}}},
		},
	}
}

func optionID(t *testing.T, quiz *dtos.QuizDetail, question int, text string) uint {
	t.Helper()
	for _, o := range quiz.Questions[question].Options {
		if o.Text == text {
			return o.ID
		}
	}
	t.Fatalf("option %q not found", text)
	return 0
}

func TestQuizService_CreateDefaultsAndHidesAnswers(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db, nil)
	ctx := context.Background()

	quiz, err := svc.Create(ctx, sampleQuizRequest(true), 1)
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultPassingScore, quiz.PassingScore)
	require.Len(t, quiz.Questions, 3)
	assert.NotNil(t, quiz.Questions[0].Options[0].IsCorrect)

	studentView, err := svc.Get(ctx, quiz.ID, false)
	require.NoError(t, err)
	for _, q := range studentView.Questions {
		for _, o := range q.Options {
			assert.Nil(t, o.IsCorrect)
		}
	}
}

func TestQuizService_RejectsQuestionWithoutCorrectOption(t *testing.T) {
	svc := NewQuizService(setupTestDB(t), nil)

	req := sampleQuizRequest(true)
	req.Questions[0].Options[0].IsCorrect = false
	_, err := svc.Create(context.Background(), req, 1)

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "questions[0].options")
}

func TestQuizService_UnpublishedHiddenFromStudents(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db, nil)
	ctx := context.Background()

	quiz, err := svc.Create(ctx, sampleQuizRequest(false), 1)
	require.NoError(t, err)

	_, err = svc.Get(ctx, quiz.ID, false)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx, dtos.QuizListFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = svc.List(ctx, dtos.QuizListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestQuizService_SubmitAttemptGrades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db, nil)
	ctx := context.Background()

	quiz, err := svc.Create(ctx, sampleQuizRequest(true), 1)
	require.NoError(t, err)

	result, err := svc.SubmitAttempt(ctx, quiz.ID, 42, dtos.SubmitAttemptRequest{
		Answers: []dtos.AttemptAnswer{
			{QuestionID: quiz.Questions[0].ID, OptionIDs: []uint{optionID(t, quiz, 0, "Blue")}},
			// only one of the two correct options
			{QuestionID: quiz.Questions[1].ID, OptionIDs: []uint{optionID(t, quiz, 1, "Red")}},
		},
	}, false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 33, result.Percentage)
	assert.False(t, result.Passed)
	assert.True(t, result.Questions[0].IsCorrect)
	assert.False(t, result.Questions[1].IsCorrect)
	assert.False(t, result.Questions[2].IsCorrect)
	assert.Empty(t, result.Questions[2].SelectedOptionIDs)

	var answers []gormModels.QuizAttemptAnswer
	require.NoError(t, db.Where("attempt_id = ?", result.AttemptID).Find(&answers).Error)
	assert.Len(t, answers, 3)

	mine, err := svc.MyAttempts(ctx, 42)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 33, mine[0].Percentage)
}

func TestQuizService_SubmitAttemptPasses(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db, nil)
	ctx := context.Background()

	quiz, err := svc.Create(ctx, sampleQuizRequest(true), 1)
	require.NoError(t, err)

	result, err := svc.SubmitAttempt(ctx, quiz.ID, 7, dtos.SubmitAttemptRequest{
		Answers: []dtos.AttemptAnswer{
			{QuestionID: quiz.Questions[0].ID, OptionIDs: []uint{optionID(t, quiz, 0, "Blue")}},
			{QuestionID: quiz.Questions[1].ID, OptionIDs: []uint{optionID(t, quiz, 1, "Yellow"), optionID(t, quiz, 1, "Red")}},
			{QuestionID: quiz.Questions[2].ID, OptionIDs: []uint{optionID(t, quiz, 2, "Green")}},
		},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Percentage)
	assert.True(t, result.Passed)
}

func TestQuizService_SubmitAttemptRejectsForeignQuestion(t *testing.T) {
	svc := NewQuizService(setupTestDB(t), nil)
	ctx := context.Background()

	quiz, err := svc.Create(ctx, sampleQuizRequest(true), 1)
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(ctx, quiz.ID, 7, dtos.SubmitAttemptRequest{
		Answers: []dtos.AttemptAnswer{{QuestionID: 9999, OptionIDs: []uint{1}}},
	}, false)
	var verr *common.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestQuizService_QuestionsFrozenAfterAttempt(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db, nil)
	ctx := context.Background()

	quiz, err := svc.Create(ctx, sampleQuizRequest(true), 1)
	require.NoError(t, err)
	_, err = svc.SubmitAttempt(ctx, quiz.ID, 7, dtos.SubmitAttemptRequest{Answers: []dtos.AttemptAnswer{}}, false)
	require.NoError(t, err)

	_, err = svc.Update(ctx, quiz.ID, sampleQuizRequest(true))
	assert.ErrorIs(t, err, ErrQuizHasAttempts)

	metaOnly := sampleQuizRequest(true)
	metaOnly.Title = "Renamed"
	metaOnly.Questions = nil
	updated, err := svc.Update(ctx, quiz.ID, metaOnly)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Len(t, updated.Questions, 3)
}

func TestQuizService_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db, nil)
	ctx := context.Background()

	quiz, err := svc.Create(ctx, sampleQuizRequest(true), 1)
	require.NoError(t, err)
	_, err = svc.SubmitAttempt(ctx, quiz.ID, 7, dtos.SubmitAttemptRequest{Answers: []dtos.AttemptAnswer{}}, false)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, quiz.ID))

	for _, model := range []any{&gormModels.Quiz{}, &gormModels.QuizQuestion{}, &gormModels.QuizOption{}, &gormModels.QuizAttempt{}, &gormModels.QuizAttemptAnswer{}} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n)
	}
	assert.ErrorIs(t, svc.Delete(ctx, quiz.ID), ErrNotFound)
}

func TestGradeAttempt_PercentageRoundsDown(t *testing.T) {
	quiz := &gormModels.Quiz{PassingScore: 66}
	for i := uint(1); i <= 3; i++ {
		quiz.Questions = append(quiz.Questions, gormModels.QuizQuestion{
			ID:      i,
			Options: []gormModels.QuizOption{{ID: i * 10, IsCorrect: true}, {ID: i*10 + 1}},
		})
	}

	grade := gradeAttempt(quiz, map[uint][]uint{1: {10}, 2: {20}, 3: {31}})
	assert.Equal(t, 2, grade.Score)
	assert.Equal(t, 66, grade.Percentage)
	assert.True(t, grade.Passed)
}
