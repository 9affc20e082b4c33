package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/logging"
	"trainingorg/quizdesk/internal/metrics"
	"trainingorg/quizdesk/internal/models/dtos"
	gormModels "trainingorg/quizdesk/internal/models/gorm"
)

type QuizService struct {
	db      *gorm.DB
	metrics *metrics.MetricsRegistry
}

func NewQuizService(db *gorm.DB, metricsReg *metrics.MetricsRegistry) *QuizService {
	return &QuizService{db: db, metrics: metricsReg}
}

// List never returns unpublished quizzes when filter.PublishedOnly is set.
func (s *QuizService) List(ctx context.Context, filter dtos.QuizListFilter) ([]gormModels.Quiz, error) {
	q := s.db.WithContext(ctx).Preload("Level").Order("title").Order("id")
	if filter.LevelID != nil {
		q = q.Where("level_id = ?", *filter.LevelID)
	}
	if filter.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	quizzes := []gormModels.Quiz{}
	if err := q.Find(&quizzes).Error; err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

// Get returns the quiz with its questions. Staff see correctness flags and
// unpublished quizzes; everyone else gets ErrNotFound for drafts.
func (s *QuizService) Get(ctx context.Context, id uint, staff bool) (*dtos.QuizDetail, error) {
	quiz, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !staff && !quiz.IsPublished {
		return nil, ErrNotFound
	}
	return toQuizDetail(quiz, staff), nil
}

func (s *QuizService) Create(ctx context.Context, req dtos.QuizRequest, createdBy uint) (*dtos.QuizDetail, error) {
	if len(req.Questions) == 0 {
		return nil, common.NewValidationError("questions", "a quiz needs at least one question")
	}
	if err := validateQuestions(req.Questions); err != nil {
		return nil, err
	}
	if err := s.checkLevel(ctx, req.LevelID); err != nil {
		return nil, err
	}

	quiz := &gormModels.Quiz{
		LevelID:          req.LevelID,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		PassingScore:     passingScore(req.PassingScore),
		TimeLimitMinutes: req.TimeLimitMinutes,
		IsPublished:      req.IsPublished,
		CreatedBy:        &createdBy,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Questions", "Level").Create(quiz).Error; err != nil {
			return err
		}
		return insertQuestions(tx, quiz.ID, req.Questions)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	logging.Info("Quiz created", "quiz_id", quiz.ID, "created_by", createdBy, "questions", len(req.Questions))
	return s.Get(ctx, quiz.ID, true)
}

// Update rewrites quiz metadata and, when questions are given, replaces all
// questions. Questions are frozen once anyone has attempted the quiz.
func (s *QuizService) Update(ctx context.Context, id uint, req dtos.QuizRequest) (*dtos.QuizDetail, error) {
	if len(req.Questions) > 0 {
		if err := validateQuestions(req.Questions); err != nil {
			return nil, err
		}
	}
	if err := s.checkLevel(ctx, req.LevelID); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quiz gormModels.Quiz
		if err := tx.First(&quiz, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		err := tx.Model(&quiz).
			Select("level_id", "title", "description", "passing_score", "time_limit_minutes", "is_published", "updated_at").
			Updates(&gormModels.Quiz{
				LevelID:          req.LevelID,
				Title:            strings.TrimSpace(req.Title),
				Description:      req.Description,
				PassingScore:     passingScore(req.PassingScore),
				TimeLimitMinutes: req.TimeLimitMinutes,
				IsPublished:      req.IsPublished,
			}).Error
		if err != nil {
			return err
		}

		if len(req.Questions) == 0 {
			return nil
		}

		var attempts int64
		if err := tx.Model(&gormModels.QuizAttempt{}).Where("quiz_id = ?", id).Count(&attempts).Error; err != nil {
			return err
		}
		if attempts > 0 {
			return ErrQuizHasAttempts
		}
		if err := deleteQuestions(tx, id); err != nil {
			return err
		}
		return insertQuestions(tx, id, req.Questions)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id, true)
}

// Delete removes the quiz with its questions, options and attempts.
func (s *QuizService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attemptIDs := tx.Model(&gormModels.QuizAttempt{}).Select("id").Where("quiz_id = ?", id)
		if err := tx.Where("attempt_id IN (?)", attemptIDs).Delete(&gormModels.QuizAttemptAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&gormModels.QuizAttempt{}).Error; err != nil {
			return err
		}
		if err := deleteQuestions(tx, id); err != nil {
			return err
		}
		res := tx.Delete(&gormModels.Quiz{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// SubmitAttempt grades answers against the quiz and stores the attempt.
func (s *QuizService) SubmitAttempt(ctx context.Context, quizID, userID uint, req dtos.SubmitAttemptRequest, staff bool) (*dtos.AttemptResult, error) {
	quiz, err := s.load(ctx, s.db, quizID)
	if err != nil {
		return nil, err
	}
	if !staff && !quiz.IsPublished {
		return nil, ErrNotFound
	}

	selected, err := collectAnswers(quiz, req.Answers)
	if err != nil {
		return nil, err
	}
	grade := gradeAttempt(quiz, selected)

	attempt := &gormModels.QuizAttempt{
		QuizID:     quiz.ID,
		UserID:     userID,
		Score:      grade.Score,
		Total:      grade.Total,
		Percentage: grade.Percentage,
		Passed:     grade.Passed,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Answers").Create(attempt).Error; err != nil {
			return err
		}
		answers := make([]gormModels.QuizAttemptAnswer, len(grade.Questions))
		for i, q := range grade.Questions {
			answers[i] = gormModels.QuizAttemptAnswer{
				AttemptID:         attempt.ID,
				QuestionID:        q.QuestionID,
				SelectedOptionIDs: q.SelectedOptionIDs,
				IsCorrect:         q.IsCorrect,
			}
		}
		return tx.Create(&answers).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store attempt: %w", err)
	}

	s.metrics.QuizAttempt(grade.Passed)
	logging.Info("Quiz attempt graded", "quiz_id", quiz.ID, "user_id", userID, "score", grade.Score, "total", grade.Total, "passed", grade.Passed)

	return &dtos.AttemptResult{
		AttemptID:    attempt.ID,
		QuizID:       quiz.ID,
		Score:        grade.Score,
		Total:        grade.Total,
		Percentage:   grade.Percentage,
		PassingScore: quiz.PassingScore,
		Passed:       grade.Passed,
		Questions:    grade.Questions,
		CreatedAt:    attempt.CreatedAt,
	}, nil
}

// ListAttempts returns every attempt for staff and only userID's otherwise.
func (s *QuizService) ListAttempts(ctx context.Context, quizID, userID uint, staff bool) ([]gormModels.QuizAttempt, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&gormModels.Quiz{}).Where("id = ?", quizID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	q := s.db.WithContext(ctx).Where("quiz_id = ?", quizID).Order("created_at DESC").Order("id DESC")
	if !staff {
		q = q.Where("user_id = ?", userID)
	}
	attempts := []gormModels.QuizAttempt{}
	if err := q.Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

func (s *QuizService) MyAttempts(ctx context.Context, userID uint) ([]gormModels.QuizAttempt, error) {
	attempts := []gormModels.QuizAttempt{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

func (s *QuizService) load(ctx context.Context, db *gorm.DB, id uint) (*gormModels.Quiz, error) {
	var quiz gormModels.Quiz
	err := db.WithContext(ctx).
		Preload("Questions", func(tx *gorm.DB) *gorm.DB { return tx.Order("position").Order("id") }).
		Preload("Questions.Options", func(tx *gorm.DB) *gorm.DB { return tx.Order("position").Order("id") }).
		First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

func (s *QuizService) checkLevel(ctx context.Context, levelID *uint) error {
	if levelID == nil {
		return nil
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&gormModels.QuizLevel{}).Where("id = ?", *levelID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return common.NewValidationError("level_id", "quiz level does not exist")
	}
	return nil
}

func passingScore(p *int) int {
	if p == nil {
		return constants.DefaultPassingScore
	}
	return *p
}

func validateQuestions(questions []dtos.QuestionRequest) error {
	for i, q := range questions {
		if len(q.Options) < 2 {
			return common.NewValidationError(fmt.Sprintf("questions[%d].options", i), "a question needs at least two options")
		}
		correct := 0
		for _, o := range q.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if correct == 0 {
			return common.NewValidationError(fmt.Sprintf("questions[%d].options", i), "a question needs at least one correct option")
		}
	}
	return nil
}

func insertQuestions(tx *gorm.DB, quizID uint, questions []dtos.QuestionRequest) error {
	for i, q := range questions {
		question := gormModels.QuizQuestion{QuizID: quizID, Prompt: strings.TrimSpace(q.Prompt), Position: i + 1}
		if err := tx.Omit("Options").Create(&question).Error; err != nil {
			return err
		}
		options := make([]gormModels.QuizOption, len(q.Options))
		for j, o := range q.Options {
			options[j] = gormModels.QuizOption{
				QuestionID: question.ID,
				Text:       strings.TrimSpace(o.Text),
				IsCorrect:  o.IsCorrect,
				Position:   j + 1,
			}
		}
		if err := tx.Create(&options).Error; err != nil {
			return err
		}
	}
	return nil
}

func deleteQuestions(tx *gorm.DB, quizID uint) error {
	questionIDs := tx.Model(&gormModels.QuizQuestion{}).Select("id").Where("quiz_id = ?", quizID)
	if err := tx.Where("question_id IN (?)", questionIDs).Delete(&gormModels.QuizOption{}).Error; err != nil {
		return err
	}
	return tx.Where("quiz_id = ?", quizID).Delete(&gormModels.QuizQuestion{}).Error
}

// collectAnswers maps question id to the selected option ids, rejecting
// questions or options that are not part of the quiz.
func collectAnswers(quiz *gormModels.Quiz, answers []dtos.AttemptAnswer) (map[uint][]uint, error) {
	optionsByQuestion := make(map[uint]map[uint]bool, len(quiz.Questions))
	for _, q := range quiz.Questions {
		opts := make(map[uint]bool, len(q.Options))
		for _, o := range q.Options {
			opts[o.ID] = true
		}
		optionsByQuestion[q.ID] = opts
	}

	selected := make(map[uint][]uint, len(answers))
	for i, a := range answers {
		opts, ok := optionsByQuestion[a.QuestionID]
		if !ok {
			return nil, common.NewValidationError(fmt.Sprintf("answers[%d].question_id", i),
				fmt.Sprintf("question %d is not part of this quiz", a.QuestionID))
		}
		if _, dup := selected[a.QuestionID]; dup {
			return nil, common.NewValidationError(fmt.Sprintf("answers[%d].question_id", i),
				fmt.Sprintf("question %d answered more than once", a.QuestionID))
		}
		for _, id := range a.OptionIDs {
			if !opts[id] {
				return nil, common.NewValidationError(fmt.Sprintf("answers[%d].option_ids", i),
					fmt.Sprintf("option %d does not belong to question %d", id, a.QuestionID))
			}
		}
		selected[a.QuestionID] = dedupeIDs(a.OptionIDs)
	}
	return selected, nil
}

type attemptGrade struct {
	Score      int
	Total      int
	Percentage int
	Passed     bool
	Questions  []dtos.QuestionAttemptState
}

// gradeAttempt marks a question correct when the selected set equals the
// correct set. Unanswered questions are wrong.
func gradeAttempt(quiz *gormModels.Quiz, selected map[uint][]uint) attemptGrade {
	grade := attemptGrade{Total: len(quiz.Questions), Questions: make([]dtos.QuestionAttemptState, 0, len(quiz.Questions))}

	for _, q := range quiz.Questions {
		correct := []uint{}
		for _, o := range q.Options {
			if o.IsCorrect {
				correct = append(correct, o.ID)
			}
		}
		chosen := selected[q.ID]
		if chosen == nil {
			chosen = []uint{}
		}
		ok := sameIDs(chosen, correct)
		if ok {
			grade.Score++
		}
		grade.Questions = append(grade.Questions, dtos.QuestionAttemptState{
			QuestionID:        q.ID,
			SelectedOptionIDs: chosen,
			CorrectOptionIDs:  correct,
			IsCorrect:         ok,
		})
	}

	if grade.Total > 0 {
		grade.Percentage = grade.Score * 100 / grade.Total
	}
	grade.Passed = grade.Percentage >= quiz.PassingScore
	return grade
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sameIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[uint]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}

func toQuizDetail(quiz *gormModels.Quiz, reveal bool) *dtos.QuizDetail {
	detail := &dtos.QuizDetail{
		ID:               quiz.ID,
		LevelID:          quiz.LevelID,
		Title:            quiz.Title,
		Description:      quiz.Description,
		PassingScore:     quiz.PassingScore,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		IsPublished:      quiz.IsPublished,
		CreatedBy:        quiz.CreatedBy,
		CreatedAt:        quiz.CreatedAt,
		Questions:        make([]dtos.QuestionDetail, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		qd := dtos.QuestionDetail{ID: q.ID, Prompt: q.Prompt, Position: q.Position, Options: make([]dtos.OptionDetail, 0, len(q.Options))}
		for _, o := range q.Options {
			od := dtos.OptionDetail{ID: o.ID, Text: o.Text}
			if reveal {
				isCorrect := o.IsCorrect
				od.IsCorrect = &isCorrect
			}
			qd.Options = append(qd.Options, od)
		}
		detail.Questions = append(detail.Questions, qd)
	}
	return detail
}
