package stamprotator

import "sort"

// backupFiles is used to satisfy a sort.Sort interface.
type backupFiles []Backup

// Len is part of sort.Interface.
func (b backupFiles) Len() int {
	return len(b)
}

// Swap is part of sort.Interface.
func (b backupFiles) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}

// Less is part of the sort.Sort interface.
// Newest time stamp first; equal stamps sort by file name.
func (b backupFiles) Less(i, j int) bool {
	if !b[i].Stamp.Equal(b[j].Stamp) {
		return b[i].Stamp.After(b[j].Stamp)
	}

	return b[i].Name < b[j].Name
}

// Our backupFiles must satify a sort.Interface.
var _ sort.Interface = (backupFiles)(nil)
