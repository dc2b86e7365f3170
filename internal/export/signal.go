package export

// Signal is the host-owned save request flag observed by a Bridge.
type Signal struct {
	on bool
}

func (s *Signal) Request()        { s.on = true }
func (s *Signal) Reset()          { s.on = false }
func (s *Signal) Requested() bool { return s.on }
