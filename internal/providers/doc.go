// Package providers holds the calculator implementations registered with
// the provider registry, plus decorators shared between them.
//
// Sub-packages:
//   - ephemeris: swiss, analytic and demo position engines
//   - fengshui: Flying Stars and Eight Mansions
//   - humandesign: body graph gates, centres, type and authority
//   - genekeys: hologenetic profile activation sequence
//   - qimen: Lo Shu and demo Qi Men Dun Jia boards
//   - chinese: demo calendar pillars and Zi Wei Dou Shu palaces
package providers
