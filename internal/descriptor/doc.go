// Package descriptor parses the compact event descriptor and owns the event
// tree that the matcher populates and the mod.xml renderer walks.
//
// A descriptor is line oriented. The first byte of each line selects its meaning:
//
//	n<name>                      start a new event
//	e<external id>               set the external id of the open event
//	s<prefix>,<name>,<value>...  add a condition list to the open event
//
// Any other line is ignored unless the parser runs in strict mode. The
// descriptor shipped with the binary is available through Default; a
// replacement file can be parsed with Load.
package descriptor
