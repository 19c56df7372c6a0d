package service

import "errors"

var (
	ErrSessionNotFound = errors.New("no board opened for teacher")
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrBookingNotReady = errors.New("booking is not ready for completion")
)

var (
	ErrLessonNotSchedulable = errors.New("lesson is not schedulable")
	ErrAlreadyQueued        = errors.New("lesson is already queued")
	ErrNoRemainingMinutes   = errors.New("booking has no minutes left to plan")
	ErrUnknownLocation      = errors.New("unknown location")
	ErrNoFreeSlot           = errors.New("no free slot left on the day")
)

var (
	ErrEmptyQueue          = errors.New("queue is empty")
	ErrQueueNotSchedulable = errors.New("queue has conflicts")
	ErrCommitInProgress    = errors.New("queue submission in progress")
	ErrCommitFailed        = errors.New("failed to create events")
)
