package domain

import (
	"errors"
	"time"
)

// ErrSyncStatusFinal is returned when a terminal sync status is asked to transition again.
var ErrSyncStatusFinal = errors.New("domain: sync status already final")

// SyncStatus records the outcome of a single sync attempt against one platform.
type SyncStatus struct {
	ID            string     `bson:"sync_id" json:"id" yaml:"id"`
	Platform      Platform   `bson:"platform" json:"platform" yaml:"platform"`
	Type          SyncType   `bson:"type" json:"type" yaml:"type"`
	StartTime     time.Time  `bson:"start_time" json:"start_time" yaml:"start_time"`
	EndTime       *time.Time `bson:"end_time,omitempty" json:"end_time,omitempty" yaml:"end_time,omitempty"`
	State         SyncState  `bson:"state" json:"status" yaml:"status"`
	RecordsSynced int        `bson:"records_synced" json:"records_synced" yaml:"records_synced"`
	Errors        []string   `bson:"errors,omitempty" json:"errors,omitempty" yaml:"errors,omitempty"`
}

// NewSyncStatus starts a sync attempt. The status is created already in progress.
func NewSyncStatus(id string, platform Platform, syncType SyncType, start time.Time) *SyncStatus {
	return &SyncStatus{
		ID:        id,
		Platform:  platform,
		Type:      syncType,
		StartTime: start,
		State:     SyncStateInProgress,
	}
}

// Complete moves the status to completed with the given record count.
func (s *SyncStatus) Complete(records int, end time.Time) error {
	if s.State.IsTerminal() {
		return ErrSyncStatusFinal
	}
	if records < 0 {
		records = 0
	}
	s.State = SyncStateCompleted
	s.RecordsSynced = records
	s.EndTime = &end
	return nil
}

// Fail moves the status to failed, recording the error message.
func (s *SyncStatus) Fail(cause error, end time.Time) error {
	if s.State.IsTerminal() {
		return ErrSyncStatusFinal
	}
	s.State = SyncStateFailed
	s.Errors = []string{cause.Error()}
	s.EndTime = &end
	return nil
}

// Duration returns the elapsed time, or zero while the attempt has no end time.
func (s *SyncStatus) Duration() time.Duration {
	if s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// Clone returns a deep copy, so callers holding it never observe later mutations.
func (s SyncStatus) Clone() SyncStatus {
	out := s
	if s.EndTime != nil {
		end := *s.EndTime
		out.EndTime = &end
	}
	if s.Errors != nil {
		out.Errors = append([]string(nil), s.Errors...)
	}
	return out
}
