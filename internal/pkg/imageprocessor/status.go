package imageprocessor

import (
	"fmt"
	"time"

	"github.com/pixmill/PixMill/internal/pkg/cache"
)

// Cache key formats for per-item export status.
const (
	ExportStatusKeyFormat          = "export:status:%s"           // export:status:<uuid>
	ExportStatusTimestampKeyFormat = "export:status:timestamp:%s" // export:status:timestamp:<uuid>
)

// Export status values.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const statusTTL = 24 * time.Hour

// SetExportStatus records the export status of an item together with a
// timestamp of the change.
func SetExportStatus(itemUUID string, status string) error {
	key := fmt.Sprintf(ExportStatusKeyFormat, itemUUID)
	setExportStatusTimestamp(itemUUID, time.Now())
	return cache.Set(key, status, statusTTL)
}

// GetExportStatus retrieves the export status of an item. Items never
// enqueued report an empty status.
func GetExportStatus(itemUUID string) string {
	status, err := cache.Get(fmt.Sprintf(ExportStatusKeyFormat, itemUUID))
	if err != nil {
		return ""
	}
	return status
}

// GetExportStatusTimestamp returns when the status last changed.
func GetExportStatusTimestamp(itemUUID string) (time.Time, error) {
	val, err := cache.Get(fmt.Sprintf(ExportStatusTimestampKeyFormat, itemUUID))
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, val)
}

// IsExportComplete reports whether an item finished exporting, successfully
// or not.
func IsExportComplete(itemUUID string) bool {
	status := GetExportStatus(itemUUID)
	return status == StatusCompleted || status == StatusFailed
}

// ClearExportStatus removes the stored status, e.g. when an item is removed
// from the session.
func ClearExportStatus(itemUUID string) {
	cache.Delete(fmt.Sprintf(ExportStatusKeyFormat, itemUUID))
	cache.Delete(fmt.Sprintf(ExportStatusTimestampKeyFormat, itemUUID))
}

func setExportStatusTimestamp(itemUUID string, ts time.Time) error {
	return cache.Set(fmt.Sprintf(ExportStatusTimestampKeyFormat, itemUUID), ts.Format(time.RFC3339), statusTTL)
}
