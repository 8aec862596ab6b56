package ai

import (
	"github.com/ani123rud/ACE/internal/ai/internal/domain"
)

type (
	Difficulty      = domain.Difficulty
	EvaluateRequest = domain.EvaluateRequest
	Turn            = domain.Turn
	Evaluation      = domain.Evaluation
	QAPair          = domain.QAPair
	ProctorSummary  = domain.ProctorSummary
	ProctorEvent    = domain.ProctorEvent
	FinalReport     = domain.FinalReport
)

const (
	DifficultyEasy   = domain.DifficultyEasy
	DifficultyMedium = domain.DifficultyMedium
	DifficultyHard   = domain.DifficultyHard
)
