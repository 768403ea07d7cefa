package services

import "github.com/vsinha/eventprocure/pkg/domain/entities"

// MappedNeed pairs a need with the supplier item it resolved to
type MappedNeed struct {
	Need         entities.Need         `json:"need"`
	SupplierItem entities.SupplierItem `json:"supplier_item"`
	ViaAlias     bool                  `json:"via_alias"`
}

// Resolution splits needs into those mapped to a supplier item and those
// that could not be resolved
type Resolution struct {
	Mapped  []MappedNeed    `json:"mapped"`
	Unknown []entities.Need `json:"unknown"`
}

// Complete reports whether every need was resolved
func (r Resolution) Complete() bool {
	return len(r.Unknown) == 0
}

// ResolveNeedsToCatalog maps each need label to a supplier item. An alias
// on the normalized label wins; otherwise the first supplier item whose
// normalized name equals the normalized label is used.
func ResolveNeedsToCatalog(needs []entities.Need, aliases []entities.Alias, supplierItems []entities.SupplierItem) Resolution {
	itemsByID := make(map[string]entities.SupplierItem, len(supplierItems))
	itemsByName := make(map[string]entities.SupplierItem, len(supplierItems))
	for _, item := range supplierItems {
		itemsByID[item.ID] = item
		key := NormalizeLabel(item.Name)
		if _, seen := itemsByName[key]; !seen {
			itemsByName[key] = item
		}
	}

	aliasTargets := make(map[string]string, len(aliases))
	for _, a := range aliases {
		aliasTargets[NormalizeLabel(a.NormalizedLabel)] = a.SupplierItemID
	}

	res := Resolution{
		Mapped:  make([]MappedNeed, 0, len(needs)),
		Unknown: make([]entities.Need, 0),
	}
	for _, need := range needs {
		key := NormalizeLabel(need.Label)

		if targetID, ok := aliasTargets[key]; ok {
			// alias pointing at a removed item falls through to name matching
			if item, ok := itemsByID[targetID]; ok {
				res.Mapped = append(res.Mapped, MappedNeed{Need: need, SupplierItem: item, ViaAlias: true})
				continue
			}
		}
		if item, ok := itemsByName[key]; ok {
			res.Mapped = append(res.Mapped, MappedNeed{Need: need, SupplierItem: item})
			continue
		}
		res.Unknown = append(res.Unknown, need)
	}
	return res
}
