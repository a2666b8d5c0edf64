package core

import "fmt"

// IdentifierPool hands out small integer handles for backend objects.
// Handle 0 is never issued so it can be used as the "invalid"/"load failed" value.
// Released handles are reused, lowest first.
type IdentifierPool struct {
	owners []interface{}
}

func NewIdentifierPool() *IdentifierPool {
	return &IdentifierPool{
		// slot 0 is reserved
		owners: make([]interface{}, 1, 100),
	}
}

func (p *IdentifierPool) AquireNewID(owner interface{}) uint32 {
	if owner == nil {
		owner = struct{}{}
	}
	length := uint32(len(p.owners))
	for i := uint32(1); i < length; i++ {
		// Existing free spot. Take it.
		if p.owners[i] == nil {
			p.owners[i] = owner
			return i
		}
	}

	// If here, no existing free slots. Need a new id, so push one.
	p.owners = append(p.owners, owner)
	return uint32(len(p.owners)) - 1
}

func (p *IdentifierPool) ReleaseID(id uint32) error {
	length := uint32(len(p.owners))
	if id == 0 || id >= length {
		return fmt.Errorf("identifier release: id '%d' out of range (max=%d). Nothing was done", id, length-1)
	}
	if p.owners[id] == nil {
		return fmt.Errorf("identifier release: id '%d' is not in use. Nothing was done", id)
	}

	// Just zero out the entry, making it available for use.
	p.owners[id] = nil
	return nil
}

// Owner returns the value registered with id, or nil.
func (p *IdentifierPool) Owner(id uint32) interface{} {
	if id == 0 || id >= uint32(len(p.owners)) {
		return nil
	}
	return p.owners[id]
}

// Live returns the number of handles currently in use.
func (p *IdentifierPool) Live() int {
	n := 0
	for i := 1; i < len(p.owners); i++ {
		if p.owners[i] != nil {
			n++
		}
	}
	return n
}
