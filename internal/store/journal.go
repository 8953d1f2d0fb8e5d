package store

// Journal appends the actuations of one running session.
type Journal struct {
	sessions   *SessionRepository
	actuations *ActuationRepository
	session    *Session
}

// Begin starts a session and returns a journal bound to it.
func (s *Store) Begin(platform, cooldownMode string) (*Journal, error) {
	sess, err := s.Sessions().Start(platform, cooldownMode)
	if err != nil {
		return nil, err
	}
	return &Journal{
		sessions:   s.Sessions(),
		actuations: s.Actuations(),
		session:    sess,
	}, nil
}

// SessionID returns the id of the journal's session.
func (j *Journal) SessionID() string {
	return j.session.ID
}

// Record appends one actuation. actErr is the volume backend error, if any.
func (j *Journal) Record(label string, delta, handIndex int, handedness string, actErr error) error {
	a := &Actuation{
		SessionID:  j.session.ID,
		Label:      label,
		Delta:      delta,
		HandIndex:  handIndex,
		Handedness: handedness,
	}
	if actErr != nil {
		a.Error = actErr.Error()
	}
	return j.actuations.Record(a)
}

// End closes the session with the reason it stopped.
func (j *Journal) End(reason string) error {
	return j.sessions.End(j.session.ID, reason)
}
