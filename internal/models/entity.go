package models

// Entity is anything stored in an id-keyed collection.
type Entity interface {
	EntityID() int
	SetEntityID(id int)
}

func (a *Agent) EntityID() int                 { return a.ID }
func (a *Agent) SetEntityID(id int)            { a.ID = id }
func (l *Lead) EntityID() int                  { return l.ID }
func (l *Lead) SetEntityID(id int)             { l.ID = id }
func (q *Quote) EntityID() int                 { return q.ID }
func (q *Quote) SetEntityID(id int)            { q.ID = id }
func (c *Customer) EntityID() int              { return c.ID }
func (c *Customer) SetEntityID(id int)         { c.ID = id }
func (c *CustomerContract) EntityID() int      { return c.ID }
func (c *CustomerContract) SetEntityID(id int) { c.ID = id }
func (s *Supplier) EntityID() int              { return s.ID }
func (s *Supplier) SetEntityID(id int)         { s.ID = id }
func (c *Component) EntityID() int             { return c.ID }
func (c *Component) SetEntityID(id int)        { c.ID = id }
func (p *Product) EntityID() int               { return p.ID }
func (p *Product) SetEntityID(id int)          { p.ID = id }
func (o *Order) EntityID() int                 { return o.ID }
func (o *Order) SetEntityID(id int)            { o.ID = id }
func (i *Invoice) EntityID() int               { return i.ID }
func (i *Invoice) SetEntityID(id int)          { i.ID = id }
func (c *CreditNote) EntityID() int            { return c.ID }
func (c *CreditNote) SetEntityID(id int)       { c.ID = id }
func (p *PurchaseOrder) EntityID() int         { return p.ID }
func (p *PurchaseOrder) SetEntityID(id int)    { p.ID = id }
func (p *ProductionOrder) EntityID() int       { return p.ID }
func (p *ProductionOrder) SetEntityID(id int)  { p.ID = id }
func (n *Notification) EntityID() int          { return n.ID }
func (n *Notification) SetEntityID(id int)     { n.ID = id }
func (t *TaxRate) EntityID() int               { return t.ID }
func (t *TaxRate) SetEntityID(id int)          { t.ID = id }
func (u *User) EntityID() int                  { return u.ID }
func (u *User) SetEntityID(id int)             { u.ID = id }
