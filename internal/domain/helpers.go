package domain

import (
	"fmt"
	"time"
)

// for debug
func (c *Comment) String() string {
	return fmt.Sprintf("[id:%s, creator:%s, created:%s, content:%s]",
		c.Id, c.Creator.Id, c.CreatedAt.Format(time.StampMilli), c.Content)
}

func (t *Thread) String() string {
	s := fmt.Sprintf("[id:%s, title:%s, category:%s, locked:%t, answered:%t, comments:[",
		t.Id, t.Title, t.Category, t.IsLocked, t.IsAnswered)
	for i := range t.Comments {
		if i > 0 {
			s += ", "
		}
		s += t.Comments[i].String()
	}
	return s + "]]"
}
