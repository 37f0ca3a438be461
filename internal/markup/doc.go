// Package markup parses the inner markup of a documentation comment into
// doc elements.
//
// Recognized tags become typed elements (doc.Summary, doc.Para, doc.List,
// doc.See, ...), text between tags becomes doc.Text and anything else is kept
// as doc.Unknown with its name, attributes and children. Comments and
// processing instructions are dropped. Adjacent text runs are merged;
// whitespace-only runs are dropped at the top level of a member, inside
// list and listheader, and inside an item that has term or description
// slots.
package markup
