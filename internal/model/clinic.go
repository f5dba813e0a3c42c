package model

type Clinic struct {
	Base
	Name     string  `json:"name" db:"name"`
	Address  *string `json:"address,omitempty" db:"address"`
	Phone    *string `json:"phone,omitempty" db:"phone"`
	Timezone string  `json:"timezone" db:"timezone"`
	Status   string  `json:"status" db:"status"`
}
