package conflict

import (
	"fmt"
	"strings"

	"github.com/noah-isme/unitime-api/internal/models"
)

// SeverityTable assigns a priority to each conflict type. Department and master
// timetables disagree on group conflicts, so the table is a parameter rather
// than a constant.
type SeverityTable map[models.ConflictType]models.Priority

// DepartmentSeverity is used when checking a single department's timetable.
func DepartmentSeverity() SeverityTable {
	return SeverityTable{
		models.ConflictVenue:     models.PriorityHigh,
		models.ConflictLecturer:  models.PriorityMedium,
		models.ConflictGroup:     models.PriorityMedium,
		models.ConflictEquipment: models.PriorityLow,
	}
}

// MasterSeverity is used for the admin cross-department view.
func MasterSeverity() SeverityTable {
	return SeverityTable{
		models.ConflictVenue:     models.PriorityHigh,
		models.ConflictLecturer:  models.PriorityMedium,
		models.ConflictGroup:     models.PriorityHigh,
		models.ConflictEquipment: models.PriorityLow,
	}
}

// Priority returns the priority for a type, MEDIUM when unset.
func (t SeverityTable) Priority(ct models.ConflictType) models.Priority {
	if p, ok := t[ct]; ok {
		return p
	}
	return models.PriorityMedium
}

// Clone copies the table.
func (t SeverityTable) Clone() SeverityTable {
	out := make(SeverityTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// ParseSeverityTable overlays "TYPE=PRIORITY" pairs (comma separated) on base.
func ParseSeverityTable(raw string, base SeverityTable) (SeverityTable, error) {
	table := base.Clone()
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return table, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("severity entry %q must look like TYPE=PRIORITY", pair)
		}
		ct := models.ConflictType(strings.ToUpper(strings.TrimSpace(parts[0])))
		switch ct {
		case models.ConflictVenue, models.ConflictLecturer, models.ConflictGroup, models.ConflictEquipment:
		default:
			return nil, fmt.Errorf("unknown conflict type %q", parts[0])
		}
		p, ok := models.ParsePriority(parts[1])
		if !ok {
			return nil, fmt.Errorf("unknown priority %q", parts[1])
		}
		table[ct] = p
	}
	return table, nil
}
