package diagram

// ConnectorManager is the registry of all connectors in a diagram and the
// sole mutator of connector routing. Keeping routing updates here means a
// moved or resized shape re-routes every incident edge in one place.
type ConnectorManager struct {
	connectors []*Connector
}

// NewConnectorManager returns an empty registry.
func NewConnectorManager() *ConnectorManager {
	return &ConnectorManager{}
}

// Create builds a connector between two shapes, routes it, and registers it.
func (m *ConnectorManager) Create(start, end *Shape, kind ConnectorKind) *Connector {
	c := NewConnector(start, end, kind)
	m.connectors = append(m.connectors, c)
	return c
}

// Add registers an existing connector (used by the loader) and routes it.
func (m *ConnectorManager) Add(c *Connector) {
	c.UpdatePath()
	m.connectors = append(m.connectors, c)
}

// All returns the registered connectors in creation order.
func (m *ConnectorManager) All() []*Connector {
	return m.connectors
}

// ForShape returns every connector incident to the shape.
func (m *ConnectorManager) ForShape(s *Shape) []*Connector {
	var out []*Connector
	for _, c := range m.connectors {
		if c.ConnectedTo(s) {
			out = append(out, c)
		}
	}
	return out
}

// UpdateForShape re-routes every connector incident to a moved or resized
// shape.
func (m *ConnectorManager) UpdateForShape(s *Shape) {
	for _, c := range m.connectors {
		if c.ConnectedTo(s) {
			c.UpdatePath()
		}
	}
}

// RemoveForShape drops every connector incident to the shape. Called before
// a shape is destroyed so no connector is ever left with a dangling endpoint.
func (m *ConnectorManager) RemoveForShape(s *Shape) {
	kept := m.connectors[:0]
	for _, c := range m.connectors {
		if !c.ConnectedTo(s) {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(m.connectors); i++ {
		m.connectors[i] = nil
	}
	m.connectors = kept
}

// Remove drops a single connector from the registry.
func (m *ConnectorManager) Remove(target *Connector) {
	for i, c := range m.connectors {
		if c == target {
			m.connectors = append(m.connectors[:i], m.connectors[i+1:]...)
			return
		}
	}
}

// Clear empties the registry.
func (m *ConnectorManager) Clear() {
	m.connectors = nil
}
