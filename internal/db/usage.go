package db

import "github.com/rs/zerolog/log"

// RecordUsage inserts one usage row asynchronously. Failures are logged and
// never surface to the caller: the usage log must not affect tool results.
func (s *Store) RecordUsage(tool, requestID, status string) {
	go func() {
		entry := UsageLog{Tool: tool, RequestID: requestID, Status: status}
		if err := s.db.Create(&entry).Error; err != nil {
			log.Warn().Err(err).Str("tool", tool).Msg("failed to record usage")
		}
	}()
}

// RecentUsage returns the most recent n usage rows, newest first.
func (s *Store) RecentUsage(n int) ([]UsageLog, error) {
	var rows []UsageLog
	err := s.db.Order("created_at desc").Limit(n).Find(&rows).Error
	return rows, err
}
