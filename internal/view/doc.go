// Package view binds presentation records to the nodes of a graph.
//
// Every graph node gets exactly one Record holding what an editor needs to
// draw it: a position, a category colour and a preview kind. The view turns
// editor gestures, expressed in port hash ids and link ids, into graph
// operations followed by a targeted re-evaluation. It never touches port
// link state itself.
package view
