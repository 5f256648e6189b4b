package project

import "strings"

// pickerSeparator splits the name from the tag list in a picker line.
const pickerSeparator = " - "

// PickerLine renders p as "<name> - #tag, #tag".
func PickerLine(p Project) string {
	tags := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = "#" + t
	}
	return p.Name + pickerSeparator + strings.Join(tags, ", ")
}

// NameFromPicker extracts the project name from a picker line. A string
// without the separator is returned unchanged.
func NameFromPicker(line string) string {
	name, _, _ := strings.Cut(line, pickerSeparator)
	return name
}
