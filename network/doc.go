/*
Package network builds the routing graph of one world.

Build runs three stages over a normalised records.Dataset:

 1. BuildStationIndex relates stations, buildings and platforms.
 2. BuildOccupancy orders platform occurrences along every line and decides
    which of them are stops.
 3. The graph stage emits ride, board, alight, walk and switch edges.

Nodes are NodeKey values: one platform node per active passenger platform and
one ride node per (platform, line) occurrence that is a stop or a junction.

The returned Graph is immutable and can be shared by concurrent queries.
*/
package network
