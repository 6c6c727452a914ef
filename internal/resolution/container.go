package resolution

// DataSourceContainer pairs one raw source value with the resolution items
// derived from it, handing the data to the next stage of field resolution.
type DataSourceContainer struct {
	value any
	items []*FieldDataItem
}

func NewDataSourceContainer(value any, items ...*FieldDataItem) *DataSourceContainer {
	return &DataSourceContainer{value: value, items: items}
}

func (c *DataSourceContainer) Value() any { return c.value }

func (c *DataSourceContainer) Items() []*FieldDataItem { return c.items }

func (c *DataSourceContainer) AddItem(item *FieldDataItem) {
	c.items = append(c.items, item)
}
