package entity

// NIFMaxLength is the width of every NIF column.
const NIFMaxLength = 9

// Client is a patient known by its national identifier. Booking and
// cancellation only check that a client exists.
type Client struct {
	NIF string `gorm:"column:nif;type:varchar(9);primaryKey" json:"nif"`
}

func (Client) TableName() string {
	return "clients"
}
