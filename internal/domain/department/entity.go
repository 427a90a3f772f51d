package department

import "time"

type Department struct {
	ID        int64
	Name      string
	ParentID  *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRoot reports whether the department has no parent.
func (d Department) IsRoot() bool {
	return d.ParentID == nil
}

// HasParent reports whether the department's parent is parentID.
func (d Department) HasParent(parentID int64) bool {
	return d.ParentID != nil && *d.ParentID == parentID
}
