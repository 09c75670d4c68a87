// Package formats parses the XML scene descriptions the game loads.
//
// Parsing is strict: unknown elements or attributes, missing required
// elements, duplicate ids and vectors with the wrong number of components
// all fail the load. A parsed Scene is plain data and never partially valid.
package formats
