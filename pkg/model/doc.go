// Package model describes a form's field layout: names, kinds, labels and
// nested structure. Concrete forms declare a FormModel once; the submission
// coordinator uses it to land server failure paths on known fields and the
// prompt package uses it to collect values field by field.
package model
