// Package domain models recorded sighting events.
//
// # Data Source
//
// Sightings come from a CSV export with one row per report:
//
//	datetime,city,state,shape,duration,comments,latitude,longitude
//	5/1/2005 21:00,anderson,in,light,120,Bright light hovering over the field,40.1933333,-85.3863889
//
// The loader in internal/adapter/csvfile turns each row into a [Sighting]. Nothing
// in this package parses or validates raw input; a Sighting is trusted as loaded.
//
// # Conventions
//
// Region is the administrative area code as it appears in the source (lowercase US
// state codes in the reference dataset). Shape is the free-form category the witness
// reported ("light", "circle", "triangle", ...). Duration is whole seconds.
//
// Timestamps carry no zone in the source and are loaded as UTC wall-clock times.
// Calendar-day comparisons use the timestamp's own date, see [Sighting.Date].
//
// # Ordering
//
// Several queries need a total order over sightings, e.g. to sort a date range
// newest-first or to walk sightings chronologically. [Compare] orders by timestamp
// and falls back to every remaining field so that equal timestamps still sort
// deterministically.
package domain
