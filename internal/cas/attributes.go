package cas

// Attributes holds the released CAS attributes. Multi-valued attributes such
// as objectClass keep every value in order.
type Attributes struct {
	User   string
	Values map[string][]string
}

// Get returns the first value of name.
func (a Attributes) Get(name string) string {
	if values := a.Values[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func (a Attributes) UGentID() string   { return a.Get("ugentID") }
func (a Attributes) GivenName() string { return a.Get("givenname") }
func (a Attributes) Surname() string   { return a.Get("surname") }
func (a Attributes) Mail() string      { return a.Get("mail") }
