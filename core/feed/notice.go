package feed

// NoticeKind is the kind of event a notice reports.
type NoticeKind int

const (
	NoticeLike NoticeKind = iota
	NoticeSave
	NoticeShare
)

// Notice describes a state change for a toast or status line.
type Notice struct {
	Kind    NoticeKind
	VideoID string
	Active  bool   // New membership state for like and save.
	Channel string // Share channel.
	Text    string
}

// HandleLike toggles the like for id locally and reports the new state.
// Syncing with the server is the caller's job.
func (c *Controller) HandleLike(id string) Notice {
	active := !c.liked[id]
	setMembership(c.liked, id, active)
	text := "Liked"
	if !active {
		text = "Like removed"
	}
	return Notice{Kind: NoticeLike, VideoID: id, Active: active, Text: text}
}

// HandleSave toggles the saved state for id locally.
func (c *Controller) HandleSave(id string) Notice {
	active := !c.saved[id]
	setMembership(c.saved, id, active)
	text := "Saved"
	if !active {
		text = "Removed from saved"
	}
	return Notice{Kind: NoticeSave, VideoID: id, Active: active, Text: text}
}

// Liked reports whether id is liked.
func (c *Controller) Liked(id string) bool { return c.liked[id] }

// Saved reports whether id is saved.
func (c *Controller) Saved(id string) bool { return c.saved[id] }

// Revert undoes an optimistic toggle after the server rejected it.
func (c *Controller) Revert(n Notice) {
	switch n.Kind {
	case NoticeLike:
		setMembership(c.liked, n.VideoID, !n.Active)
	case NoticeSave:
		setMembership(c.saved, n.VideoID, !n.Active)
	}
}

func setMembership(set map[string]bool, id string, on bool) {
	if on {
		set[id] = true
		return
	}
	delete(set, id)
}
