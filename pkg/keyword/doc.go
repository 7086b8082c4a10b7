// Package keyword defines the record model of a keyword deck.
//
// Every block of a deck (a "*NAME" header followed by data cards) decodes into
// a value implementing Keyword. Concrete types cover nodes, the element
// families, parts, a few materials and sections, and lifetime definitions. A
// block whose name is not registered decodes into Raw, which keeps its cards
// verbatim so that it is written back unchanged.
//
// Name resolution goes through a Registry. DefaultRegistry builds one with
// every type in this package; callers that define their own keywords register
// them on a registry of their own and pass it to the deck reader.
package keyword
