package driver

// Schema metadata snapshot, as returned by Conn.KeyspaceMeta. The bridge
// exposes it through borrowed iterator handles; the snapshot itself is
// immutable once built.

// ColumnMeta describes a single column of a table.
type ColumnMeta struct {
	Name string
	Type Type
}

// TableMeta describes a table, its columns, and its key layout.
type TableMeta struct {
	Name          string
	Columns       []ColumnMeta
	PartitionKey  []string
	ClusteringKey []string
}

// KeyspaceMeta is the full snapshot of one keyspace.
type KeyspaceMeta struct {
	Name   string
	Tables []TableMeta
}

// Table returns the named table's metadata, or nil if absent.
func (k *KeyspaceMeta) Table(name string) *TableMeta {
	for i := range k.Tables {
		if k.Tables[i].Name == name {
			return &k.Tables[i]
		}
	}
	return nil
}

// Column returns the named column's metadata, or nil if absent.
func (t *TableMeta) Column(name string) *ColumnMeta {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}
