// Package server implements the responder backend: a chi HTTP service that
// answers restaurant questions over the same /chat contract the widget's
// gateway speaks.
package server

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

//go:embed data/*.json
var defaultData embed.FS

// MenuVariant is one size/price option of a menu item.
type MenuVariant struct {
	Size  string
	Price float64
}

// MenuAddon is an optional extra with a surcharge.
type MenuAddon struct {
	Name  string
	Price float64
}

// MenuItem is a single dish. Price comes either from BasePrice or from
// the variants.
type MenuItem struct {
	Name        string
	Description string
	BasePrice   float64
	Variants    []MenuVariant
	Flavours    []string
	Addons      []MenuAddon
}

// MenuCategory groups items; category order is menu display order.
type MenuCategory struct {
	Name  string
	Items []MenuItem
}

// Branch is one restaurant location.
type Branch struct {
	Name    string
	City    string
	Address string
	Phone   string
}

// DayHours is one weekday line of a branch schedule.
type DayHours struct {
	Day   string
	Hours string
}

// BranchHours is the schedule of one branch.
type BranchHours struct {
	BranchName   string
	Regular      []DayHours
	SpecialNotes string
}

// FAQ is one question/answer pair.
type FAQ struct {
	Question string
	Answer   string
}

// About describes the restaurant.
type About struct {
	Name        string
	Description string
	Mission     string
}

// Data is everything the responder knows. Sections left empty (missing or
// unreadable files) produce "not available" answers rather than errors.
type Data struct {
	Restaurant string
	Currency   string
	Menu       []MenuCategory
	FAQs       []FAQ
	Branches   []Branch
	Hours      []BranchHours
	About      About
}

// weekday order used when flattening the "regular" hours object.
var daysOrder = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// LoadData reads the restaurant data files from dir, or the embedded
// defaults when dir is empty. Parsing goes through gjson so category and
// item order follow document order.
func LoadData(dir string) (*Data, error) {
	read := func(name string) ([]byte, error) {
		if dir == "" {
			return defaultData.ReadFile("data/" + name)
		}
		return os.ReadFile(filepath.Join(dir, name))
	}

	d := &Data{Currency: "PKR"}

	menu, err := read("menu.json")
	if err == nil {
		parseMenu(d, menu)
	} else if dir != "" && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading menu.json: %w", err)
	}

	if body, err := read("faq.json"); err == nil {
		gjson.GetBytes(body, "faqs").ForEach(func(_, q gjson.Result) bool {
			d.FAQs = append(d.FAQs, FAQ{
				Question: q.Get("question").String(),
				Answer:   q.Get("answer").String(),
			})
			return true
		})
	}

	if body, err := read("branches.json"); err == nil {
		gjson.GetBytes(body, "branches").ForEach(func(_, b gjson.Result) bool {
			d.Branches = append(d.Branches, Branch{
				Name:    b.Get("name").String(),
				City:    b.Get("city").String(),
				Address: b.Get("address").String(),
				Phone:   b.Get("phone").String(),
			})
			return true
		})
	}

	if body, err := read("hours.json"); err == nil {
		gjson.GetBytes(body, "hours").ForEach(func(_, h gjson.Result) bool {
			bh := BranchHours{
				BranchName:   h.Get("branch_name").String(),
				SpecialNotes: h.Get("special_notes").String(),
			}
			regular := h.Get("regular")
			for _, day := range daysOrder {
				if v := regular.Get(day); v.Exists() {
					bh.Regular = append(bh.Regular, DayHours{Day: day, Hours: v.String()})
				}
			}
			d.Hours = append(d.Hours, bh)
			return true
		})
	}

	if body, err := read("about.json"); err == nil {
		d.About = About{
			Name:        gjson.GetBytes(body, "name").String(),
			Description: gjson.GetBytes(body, "description").String(),
			Mission:     gjson.GetBytes(body, "mission").String(),
		}
	}

	return d, nil
}

func parseMenu(d *Data, body []byte) {
	if v := gjson.GetBytes(body, "restaurant"); v.Exists() {
		d.Restaurant = v.String()
	}
	if v := gjson.GetBytes(body, "currency"); v.Exists() {
		d.Currency = v.String()
	}

	gjson.GetBytes(body, "menu").ForEach(func(category, items gjson.Result) bool {
		cat := MenuCategory{Name: category.String()}
		items.ForEach(func(_, item gjson.Result) bool {
			mi := MenuItem{
				Name:        item.Get("name").String(),
				Description: item.Get("description").String(),
				BasePrice:   item.Get("base_price").Float(),
			}
			item.Get("variants").ForEach(func(_, v gjson.Result) bool {
				mi.Variants = append(mi.Variants, MenuVariant{
					Size:  v.Get("size").String(),
					Price: v.Get("price").Float(),
				})
				return true
			})
			item.Get("flavours").ForEach(func(_, f gjson.Result) bool {
				if f.IsObject() {
					mi.Flavours = append(mi.Flavours, f.Get("name").String())
				} else {
					mi.Flavours = append(mi.Flavours, f.String())
				}
				return true
			})
			item.Get("addons").ForEach(func(_, a gjson.Result) bool {
				mi.Addons = append(mi.Addons, MenuAddon{
					Name:  a.Get("name").String(),
					Price: a.Get("price").Float(),
				})
				return true
			})
			if mi.Name != "" {
				cat.Items = append(cat.Items, mi)
			}
			return true
		})
		if len(cat.Items) > 0 {
			d.Menu = append(d.Menu, cat)
		}
		return true
	})
}
