package probe

import (
	"github.com/beevik/etree"

	"github.com/arthur-debert/dotstow/pkg/errors"
)

// ParseFontPlist extracts font family names from the XML property list
// printed by `system_profiler SPFontsDataType -xml`. Every <dict> holding a
// <key>family</key> contributes the <string> that follows the key.
func ParseFontPlist(data []byte) ([]string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrDependencyMissing, "cannot parse font plist")
	}

	seen := make(map[string]bool)
	var families []string
	for _, dict := range doc.FindElements("//dict") {
		children := dict.ChildElements()
		for i := 0; i+1 < len(children); i++ {
			if children[i].Tag != "key" || children[i].Text() != "family" {
				continue
			}
			value := children[i+1]
			if value.Tag != "string" {
				continue
			}
			name := value.Text()
			if name != "" && !seen[name] {
				seen[name] = true
				families = append(families, name)
			}
		}
	}
	return families, nil
}
