package core

import "math"

// ProgressSink receives the completed percentage of a running extraction.
type ProgressSink func(percent int)

// Extract adds one column per attribute of rules to a copy of data.
//
// Each cell holds the matched rule value, with the kind it had in the
// configuration, or Null. Progress is published once
// per attribute as round(100*done/total) and a final 100 is always sent, even
// when rules is empty. Descriptions are always read from data, so an
// attribute named like the description column cannot affect later
// attributes. The input table is not modified.
func Extract(data *Table, rules *RuleSet, sink ProgressSink) (*Table, error) {
	descCol, ok := DescriptionColumn(data)
	if !ok {
		return nil, ErrMissingDescriptionColumn
	}

	result := data.Clone()
	attributes := rules.Attributes()
	total := len(attributes)

	for i, attr := range attributes {
		attrRules := rules.Rules(attr)
		for j, row := range result.Rows {
			v, _ := Match(data.Rows[j].Get(descCol), attrRules)
			row[attr] = v
		}
		result.ensureColumn(attr)
		publish(sink, percentDone(i+1, total))
	}

	publish(sink, 100)
	return result, nil
}

func percentDone(done, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

func publish(sink ProgressSink, percent int) {
	if sink != nil {
		sink(percent)
	}
}
