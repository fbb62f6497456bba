package canon

import (
    "regexp"
    "strings"
)

var rePunct = regexp.MustCompile(`[^A-Za-z0-9\s]`)
var reZIP = regexp.MustCompile(`^(\d{5})(?:-?\d{4})?$`)
var reUnit = regexp.MustCompile(`^(.*?)\s*(?:\b(?:APT|APARTMENT|UNIT|STE|SUITE)\b\.?\s*#?|#)\s*([A-Z0-9-]+)$`)

// Key normalizes a free-form one-line address ("123 Main Street Apt 4, Austin, Texas 78701")
// into a stable cache key. Unit designators are kept and spelled one way, so
// "APT 4", "Unit 4", "Suite 4" and "#4" all become "apt 4" and two units of
// one building never share a key.
func Key(address string) string {
    parts := strings.Split(address, ",")
    out := make([]string, 0, len(parts))
    for i, p := range parts {
        var n string
        if i == 0 {
            n = normalizeStreet(p)
        } else {
            n = normalizeLocality(p)
        }
        if n != "" { out = append(out, n) }
    }
    return strings.ToLower(strings.Join(out, "|"))
}

func normalizeStreet(s string) string {
    n, unit := splitUnit(strings.ToUpper(strings.TrimSpace(s)))
    n = rePunct.ReplaceAllString(n, " ")
    toks := strings.Fields(n)
    for i, t := range toks {
        if v, ok := suffixes[t]; ok { toks[i] = v }
    }
    if unit != "" { toks = append(toks, "APT", unit) }
    return strings.Join(toks, " ")
}

// normalizeLocality handles "Austin", "Texas 78701", "TX 78701-1234".
func normalizeLocality(s string) string {
    toks := strings.Fields(strings.ToUpper(strings.TrimSpace(s)))
    var zip string
    if len(toks) > 0 {
        last := toks[len(toks)-1]
        if m := reZIP.FindStringSubmatch(last); m != nil {
            zip = m[1]
            toks = toks[:len(toks)-1]
        }
    }
    name := strings.Join(strings.Fields(rePunct.ReplaceAllString(strings.Join(toks, " "), " ")), " ")
    if len(name) > 2 { name = stateAbbrev(name) }
    return strings.TrimSpace(name + " " + zip)
}

// splitUnit separates a trailing unit designator ("APT 4", "SUITE 200",
// "#4B") from the street. The unit id loses hyphens: "1-A" and "1A" match.
func splitUnit(s string) (street, unit string) {
    m := reUnit.FindStringSubmatch(s)
    if m == nil { return s, "" }
    unit = strings.ReplaceAll(m[2], "-", "")
    if unit == "" { return s, "" }
    return strings.TrimSpace(m[1]), unit
}

// Basic USPS-style suffix normalization
var suffixes = map[string]string{
    "STREET": "ST",
    "ROAD": "RD",
    "AVENUE": "AVE",
    "BOULEVARD": "BLVD",
    "DRIVE": "DR",
    "LANE": "LN",
    "COURT": "CT",
    "CIRCLE": "CIR",
    "TERRACE": "TER",
    "PLACE": "PL",
    "PARKWAY": "PKWY",
    "HIGHWAY": "HWY",
}

func stateAbbrev(s string) string {
    m := map[string]string{
        "ALABAMA":"AL","ALASKA":"AK","ARIZONA":"AZ","ARKANSAS":"AR","CALIFORNIA":"CA","COLORADO":"CO","CONNECTICUT":"CT","DELAWARE":"DE","FLORIDA":"FL","GEORGIA":"GA","HAWAII":"HI","IDAHO":"ID","ILLINOIS":"IL","INDIANA":"IN","IOWA":"IA","KANSAS":"KS","KENTUCKY":"KY","LOUISIANA":"LA","MAINE":"ME","MARYLAND":"MD","MASSACHUSETTS":"MA","MICHIGAN":"MI","MINNESOTA":"MN","MISSISSIPPI":"MS","MISSOURI":"MO","MONTANA":"MT","NEBRASKA":"NE","NEVADA":"NV","NEW HAMPSHIRE":"NH","NEW JERSEY":"NJ","NEW MEXICO":"NM","NEW YORK":"NY","NORTH CAROLINA":"NC","NORTH DAKOTA":"ND","OHIO":"OH","OKLAHOMA":"OK","OREGON":"OR","PENNSYLVANIA":"PA","RHODE ISLAND":"RI","SOUTH CAROLINA":"SC","SOUTH DAKOTA":"SD","TENNESSEE":"TN","TEXAS":"TX","UTAH":"UT","VERMONT":"VT","VIRGINIA":"VA","WASHINGTON":"WA","WEST VIRGINIA":"WV","WISCONSIN":"WI","WYOMING":"WY",
    }
    if v, ok := m[s]; ok { return v }
    return s
}
