package events

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityInterUni Visibility = "inter_uni"
	VisibilityPrivate  Visibility = "private"
)

func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityInterUni, VisibilityPrivate:
		return true
	}
	return false
}

func (v Visibility) String() string {
	return string(v)
}
