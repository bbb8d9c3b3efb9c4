package models

func (a *Agent) DisplayName() string     { return a.Name }
func (l *Lead) DisplayName() string      { return l.Name }
func (c *Customer) DisplayName() string  { return c.Company }
func (s *Supplier) DisplayName() string  { return s.Name }
func (c *Component) DisplayName() string { return c.Name }
func (p *Product) DisplayName() string   { return p.Name }
func (t *TaxRate) DisplayName() string   { return t.Name }
func (u *User) DisplayName() string      { return u.Name }
