package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/dto"
	"github.com/lshigami/nexera-quiz/internal/model"
)

const (
	weeklyWindowDays = 90
	weekStartLayout  = "2006-01-02"
)

// LatestAttemptPerQuiz keeps the newest attempt of every quiz, newest first.
// Ties on SubmittedAt keep input order.
func LatestAttemptPerQuiz(attempts []model.QuizAttempt) []model.QuizAttempt {
	sorted := make([]model.QuizAttempt, len(attempts))
	copy(sorted, attempts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubmittedAt.After(sorted[j].SubmittedAt)
	})

	seen := make(map[uuid.UUID]bool, len(sorted))
	latest := make([]model.QuizAttempt, 0, len(sorted))
	for _, a := range sorted {
		if seen[a.QuizID] {
			continue
		}
		seen[a.QuizID] = true
		latest = append(latest, a)
	}
	return latest
}

// SectionNumber is the 1-based position of quizID among the quizzes of one
// file ordered by creation time, or 0 when it is not among them.
func SectionNumber(quizzesOfFile []model.Quiz, quizID uuid.UUID) int {
	ordered := make([]model.Quiz, len(quizzesOfFile))
	copy(ordered, quizzesOfFile)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})
	for i, q := range ordered {
		if q.ID == quizID {
			return i + 1
		}
	}
	return 0
}

func SectionLabel(originalName string, section int) string {
	return fmt.Sprintf("%s - Section %d", originalName, section)
}

// WeeklyAverages averages scored attempts of the last 90 days per ISO week
// (Monday 00:00 UTC), rounded to two decimals and ordered by week.
func WeeklyAverages(attempts []model.QuizAttempt, now time.Time) []dto.WeeklyScore {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -weeklyWindowDays)

	type bucket struct {
		sum   int
		count int
	}
	buckets := make(map[time.Time]*bucket)
	for _, a := range attempts {
		if a.Score == nil {
			continue
		}
		submitted := a.SubmittedAt.UTC()
		if submitted.Before(start) {
			continue
		}
		week := WeekStart(submitted)
		b, ok := buckets[week]
		if !ok {
			b = &bucket{}
			buckets[week] = b
		}
		b.sum += *a.Score
		b.count++
	}

	weeks := make([]time.Time, 0, len(buckets))
	for week := range buckets {
		weeks = append(weeks, week)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	out := make([]dto.WeeklyScore, 0, len(weeks))
	for _, week := range weeks {
		b := buckets[week]
		avg := float64(b.sum) / float64(b.count)
		out = append(out, dto.WeeklyScore{WeekStart: week.Format(weekStartLayout), AvgScore: math.Round(avg*100) / 100})
	}
	return out
}

// WeekStart returns Monday 00:00 UTC of the week containing t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
