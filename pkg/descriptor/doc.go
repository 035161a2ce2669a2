// Package descriptor loads metadata descriptors (JSON or YAML objects) and
// classifies their "image" entry as either a published content locator or a
// local asset reference.
package descriptor
