package entity

import "time"

// Actor recorded on audit fields when no authenticated user is present.
const SystemActor = "System"

// Audit carries the identity and audit fields shared by all persisted
// domain entities. Audit fields stay nil until the first commit; they are
// written only by the save pipeline, never by application code.
type Audit struct {
	ID           int64      `db:"id" json:"id"`
	DateCreated  *time.Time `db:"date_created" json:"dateCreated"`
	CreatedBy    *string    `db:"created_by" json:"createdBy"`
	DateModified *time.Time `db:"date_modified" json:"dateModified"`
	ModifiedBy   *string    `db:"modified_by" json:"modifiedBy"`
}

// AuditFields exposes the embedded audit block for stamping.
func (a *Audit) AuditFields() *Audit { return a }

// Auditable is implemented by every entity that embeds Audit.
type Auditable interface {
	AuditFields() *Audit
}

// StampCreated sets the creation timestamp and actor.
func (a *Audit) StampCreated(now time.Time, actor string) {
	a.DateCreated = &now
	a.CreatedBy = &actor
}

// StampModified sets the modification timestamp and actor. Creation fields
// are left untouched.
func (a *Audit) StampModified(now time.Time, actor string) {
	a.DateModified = &now
	a.ModifiedBy = &actor
}
