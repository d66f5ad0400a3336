package database

import "devzora-control-center/internal/models"

// Audit writes an entry to the audit trail. Failures are swallowed: the
// trail must never break the request that caused it.
func Audit(userID uint, entity string, entityID uint, action, details string) {
	if DB == nil {
		return
	}
	record := models.AuditLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	_ = DB.Create(&record).Error
}
