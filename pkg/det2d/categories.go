package det2d

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// NameIndex is a two-way table between names and their position in an ordered list
type NameIndex struct {
	names []string
	index map[string]int
}

func newNameIndex(names []string) (*NameIndex, error) {
	n := &NameIndex{
		names: names,
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if _, ok := n.index[name]; ok {
			return nil, formatErrorf("duplicate name '%v'", name)
		}
		n.index[name] = i
	}
	return n, nil
}

// Index of name, or ErrInvalidArgument if the name is unknown
func (n *NameIndex) Index(name string) (int, error) {
	i, ok := n.index[name]
	if !ok {
		return 0, invalidArgumentf("unknown name '%v'", name)
	}
	return i, nil
}

// Name at index, or ErrInvalidArgument if index is out of range
func (n *NameIndex) Name(index int) (string, error) {
	if index < 0 || index >= len(n.names) {
		return "", invalidArgumentf("index %v is out of range [0, %v)", index, len(n.names))
	}
	return n.names[index], nil
}

// Return a copy of the names, in order
func (n *NameIndex) Names() []string {
	return append([]string(nil), n.names...)
}

func (n *NameIndex) Len() int {
	return len(n.names)
}

// Categories is the content of a cats.json file. The file is an object whose key order
// defines the category indices:
//
//	{"Human": {"keypoints": ["nose", "leye", ...], ...}, ...}
type Categories struct {
	*NameIndex
	keypoints []*NameIndex
	details   []string
}

// LoadCategories reads a cats.json file
func LoadCategories(path string) (*Categories, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseCategories(raw)
	if err != nil {
		return nil, fmt.Errorf("Failed to parse categories file %v: %w", path, err)
	}
	return c, nil
}

// ParseCategories parses the content of a cats.json file
func ParseCategories(data []byte) (*Categories, error) {
	if !gjson.ValidBytes(data) {
		return nil, formatErrorf("categories are not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, formatErrorf("categories must be a JSON object")
	}

	names := []string{}
	c := &Categories{}
	var parseErr error
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			parseErr = formatErrorf("category '%v' must be an object", key.String())
			return false
		}
		kp := value.Get("keypoints")
		if kp.Exists() && !kp.IsArray() {
			parseErr = formatErrorf("keypoints of category '%v' must be an array", key.String())
			return false
		}
		kpNames := []string{}
		for _, k := range kp.Array() {
			kpNames = append(kpNames, k.String())
		}
		kpIndex, err := newNameIndex(kpNames)
		if err != nil {
			parseErr = fmt.Errorf("keypoints of category '%v': %w", key.String(), err)
			return false
		}
		names = append(names, key.String())
		c.keypoints = append(c.keypoints, kpIndex)
		c.details = append(c.details, value.Raw)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	index, err := newNameIndex(names)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	c.NameIndex = index
	return c, nil
}

// Keypoints returns the keypoint name table of a category
func (c *Categories) Keypoints(category int) (*NameIndex, error) {
	if _, err := c.Name(category); err != nil {
		return nil, err
	}
	return c.keypoints[category], nil
}

// Details returns the raw JSON object describing a category
func (c *Categories) Details(category int) (string, error) {
	if _, err := c.Name(category); err != nil {
		return "", err
	}
	return c.details[category], nil
}

// KeypointIndices resolves keypoint names of a category to their indices, in the order given
func (c *Categories) KeypointIndices(category int, names ...string) ([]int, error) {
	kp, err := c.Keypoints(category)
	if err != nil {
		return nil, err
	}
	indices := make([]int, len(names))
	for i, name := range names {
		if indices[i], err = kp.Index(name); err != nil {
			return nil, err
		}
	}
	return indices, nil
}
