package entity

type Currency struct {
	Address  string `gorm:"primaryKey"`
	Name     string
	Symbol   string
	Decimals int
}
