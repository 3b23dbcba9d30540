package domain

// Address is the result of a postal code lookup
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// Line formats the address the way the wizard fills the address field
func (a *Address) Line() string {
	out := a.Street
	for _, part := range []string{a.Neighborhood, a.City} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	if a.State != "" {
		if out != "" {
			out += " - "
		}
		out += a.State
	}
	return out
}
