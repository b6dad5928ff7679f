package listener

import (
	"fmt"
	"os"
	"time"
)

// AuditLog appends one line per received message to a local file:
//
//	<RFC 3339 receipt timestamp> | <raw payload>
//
// The file is opened in append mode for each write and closed again, so the
// line is durable before the next message is processed. Nothing ever reads
// the file back.
type AuditLog struct {
	path string
	now  func() time.Time
}

func NewAuditLog(path string) *AuditLog {
	return &AuditLog{path: path, now: time.Now}
}

// Append writes one audit line. Errors are surfaced to the caller; a failed
// append aborts the listening loop.
func (a *AuditLog) Append(payload string) error {
	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log %s: %w", a.path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s | %s\n", a.now().Format(time.RFC3339), payload); err != nil {
		return fmt.Errorf("append audit line: %w", err)
	}
	return nil
}
