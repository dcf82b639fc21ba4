package shared

// Activatable is the soft-delete flag shared by every entity.
// Rows are never physically removed; they are marked inactive.
type Activatable struct {
	IsActive bool
}

// NewActivatable returns an active flag
func NewActivatable() Activatable {
	return Activatable{IsActive: true}
}

// Deactivate marks the row as soft-deleted
func (a *Activatable) Deactivate() error {
	if !a.IsActive {
		return ErrAlreadyInactive
	}
	a.IsActive = false
	return nil
}

// Activate restores a soft-deleted row
func (a *Activatable) Activate() error {
	if a.IsActive {
		return ErrAlreadyActive
	}
	a.IsActive = true
	return nil
}
