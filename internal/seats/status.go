package seats

type Status string

const (
	StatusFree     Status = "FREE"
	StatusReserved Status = "RESERVED"
	StatusSold     Status = "SOLD"
	StatusBlocked  Status = "BLOCKED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusFree, StatusReserved, StatusSold, StatusBlocked:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsAcquirable reports whether the registration workflow may take the seat
func (s Status) IsAcquirable() bool {
	return s == StatusFree
}

type SeatGroupType string

const (
	GroupTypeTable  SeatGroupType = "table"
	GroupTypeSector SeatGroupType = "sector"
	GroupTypeZone   SeatGroupType = "zone"
)
