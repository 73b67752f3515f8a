package sortio

// FieldType names the typed interpretation applied to an extracted field
// before it is compared.
type FieldType int

const (
	String FieldType = iota
	Integer
	Number
)

func (t FieldType) String() string {
	switch t {
	case String:
		return "String"
	case Integer:
		return "Integer"
	case Number:
		return "Number"
	default:
		return "Unknown"
	}
}

// Order names the direction a Record vector is sorted in.
type Order int

const (
	Asc Order = iota
	Desc
)

func (o Order) String() string {
	if o == Desc {
		return "Desc"
	}
	return "Asc"
}
