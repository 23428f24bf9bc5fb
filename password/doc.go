// Package password evaluates candidate passwords against the console's
// fixed rule set. Validation is pure and cheap enough to run on every
// keystroke; the ordered requirement descriptors exist solely for rendering
// the checklist next to a password field.
package password
