package entity

// Doctor carries the aggregate ActiveAppointments, which must always equal the
// number of its appointments without a cancellation. It is only ever changed
// by one conditional UPDATE per booking (+1) or cancellation (-1).
type Doctor struct {
	ID                 int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NIF                string `gorm:"column:nif;type:varchar(9);uniqueIndex;not null" json:"nif"`
	ActiveAppointments int64  `gorm:"column:active_appointments;not null;default:0" json:"active_appointments"`
}

func (Doctor) TableName() string {
	return "doctors"
}
