package domain

// StatusPayload is the wire shape of a status as it crosses the queue
// boundary. Field names are part of the queue contract; both worker
// stages and the orchestrator marshal exactly this.
type StatusPayload struct {
	StatusBody          string        `json:"statusBody" validate:"required"`
	AuthorIdentity      string        `json:"authorIdentity" validate:"required"`
	AuthorDisplayFields DisplayFields `json:"authorDisplayFields"`
	Timestamp           int64         `json:"timestamp" validate:"required,gt=0"`
}

// DisplayFields carries the author's denormalized display data inside a
// queue payload.
type DisplayFields struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"avatarUrl"`
}

// ExpansionJob asks the expansion stage to fan one posted status out to
// the author's followers. Exactly one is enqueued per posted status.
type ExpansionJob struct {
	Status      StatusPayload `json:"status"`
	AuthorAlias string        `json:"authorAlias" validate:"required"`
}

// UpdateJob asks the feed update stage to upsert one status into one
// follower's feed. The expansion stage emits one per follower.
type UpdateJob struct {
	Status        StatusPayload `json:"status"`
	ReceiverAlias string        `json:"receiverAlias" validate:"required"`
}

// PayloadFromStatus converts a domain status to its queue wire shape.
func PayloadFromStatus(s *Status) StatusPayload {
	return StatusPayload{
		StatusBody:     s.Post,
		AuthorIdentity: s.Author.Alias,
		AuthorDisplayFields: DisplayFields{
			FirstName: s.Author.FirstName,
			LastName:  s.Author.LastName,
			AvatarURL: s.Author.ImageURL,
		},
		Timestamp: s.Timestamp,
	}
}

// ToStatus converts a queue payload back into a domain status.
func (p StatusPayload) ToStatus() (*Status, error) {
	author := UserRef{
		Alias:     p.AuthorIdentity,
		FirstName: p.AuthorDisplayFields.FirstName,
		LastName:  p.AuthorDisplayFields.LastName,
		ImageURL:  p.AuthorDisplayFields.AvatarURL,
	}
	return NewStatus(p.StatusBody, author, p.Timestamp)
}
