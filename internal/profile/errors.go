package profile

import "errors"

// Precondition violations. None of these are fatal; handlers map them
// to 4xx responses and local state stays untouched.
var (
	ErrQuestNotFound           = errors.New("quest not found")
	ErrQuestAlreadyCompleted   = errors.New("quest already completed")
	ErrSubTasksIncomplete      = errors.New("quest has unchecked sub-tasks")
	ErrSubTaskNotFound         = errors.New("sub-task not found")
	ErrNoActiveFocus           = errors.New("no focus session running")
	ErrFocusTargetCompleted    = errors.New("cannot focus on a completed quest")
	ErrUnknownItem             = errors.New("item not in catalog")
	ErrInsufficientCoins       = errors.New("not enough coins")
	ErrAlreadyOwned            = errors.New("item already owned")
	ErrNotOwned                = errors.New("item not owned")
	ErrUnknownChallenge        = errors.New("unknown challenge")
	ErrChallengeAlreadyClaimed = errors.New("challenge already claimed")
	ErrChallengeIncomplete     = errors.New("challenge target not met")
)
