package collision

import (
	"sort"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// Instance identifies one of the contact maps kept by a ContactManager.
type Instance int

type contactEntry struct {
	pair    ModelPair
	contact Contact
	serial  uint64
}

type contactMap map[ModelPair]*contactEntry

// lookup finds the entry of an unordered model pair.
func (cm contactMap) lookup(p ModelPair) (*contactEntry, bool) {
	if e, ok := cm[p]; ok {
		return e, true
	}
	e, ok := cm[p.Swap()]
	return e, ok
}

// sorted returns the entries in creation order.
func (cm contactMap) sorted() []*contactEntry {
	entries := make([]*contactEntry, 0, len(cm))
	for _, e := range cm {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(a, b int) bool {
		return entries[a].serial < entries[b].serial
	})
	return entries
}

// ContactManager turns the detection outputs of each step into persistent
// contacts. A contact is created the first time its model pair is detected,
// fed with fresh outputs while the pair keeps being detected and retired
// once it is neither detected nor kept alive.
type ContactManager struct {
	response       string
	responseParams string
	factory        *ContactFactory
	intersection   *Intersection
	verbose        bool

	contactMap       contactMap
	storedContactMap map[Instance]contactMap
	instance         Instance
	contacts         []Contact
	counted          map[Model]int
	serial           uint64
	creationErrors   *creationErrors
}

// NewContactManager returns a manager creating contacts with factory. The
// response is used for pairs whose models do not override it.
func NewContactManager(factory *ContactFactory, in *Intersection, response string) *ContactManager {
	return &ContactManager{
		response:         response,
		factory:          factory,
		intersection:     in,
		contactMap:       make(contactMap),
		storedContactMap: make(map[Instance]contactMap),
		counted:          make(map[Model]int),
		creationErrors:   newCreationErrors(),
	}
}

// SetDefaultResponse sets the default response and the parameters appended
// to it.
func (m *ContactManager) SetDefaultResponse(response, params string) {
	m.response = response
	m.responseParams = params
}

// SetVerbose makes new contacts log their updates.
func (m *ContactManager) SetVerbose(v bool) {
	m.verbose = v
}

// Factory returns the registry contacts are created with.
func (m *ContactManager) Factory() *ContactFactory {
	return m.factory
}

// Contacts returns the live contacts in creation order.
func (m *ContactManager) Contacts() []Contact {
	return m.contacts
}

// Contact returns the live contact of a model pair, in either order.
func (m *ContactManager) Contact(a, b Model) (Contact, bool) {
	e, ok := m.contactMap.lookup(ModelPair{First: a, Second: b})
	if !ok {
		return nil, false
	}
	return e.contact, true
}

// Instance returns the current instance.
func (m *ContactManager) Instance() Instance {
	return m.instance
}

// ContactResponse returns the response used for a pair of models. A model
// override wins over the default unless both models override it with
// different responses.
func (m *ContactManager) ContactResponse(m1, m2 Model) string {
	response := m.response
	if m.responseParams != "" {
		response += "?" + m.responseParams
	}

	r1, r2 := m1.ContactResponse(), m2.ContactResponse()
	switch {
	case r1 == "" && r2 == "":
		return response
	case r1 == "":
		return r2
	case r2 == "":
		return r1
	case r1 == r2:
		return r1
	default:
		return response
	}
}

// CreateContacts matches the outputs of a step against the live contacts.
// It creates the contacts of newly detected pairs, feeds the existing ones,
// retires the ones that were not detected and are not kept alive, and
// updates the number of contacts of each model.
func (m *ContactManager) CreateContacts(outputs *DetectionOutputMap) {
	m.createNewContacts(outputs)
	m.removeInactiveContacts(outputs)
	m.rebuildContactList()
	m.setNumberOfContacts()
}

func (m *ContactManager) createNewContacts(outputs *DetectionOutputMap) {
	for _, pair := range outputs.Pairs() {
		if !pair.Valid() {
			logs.Error(errors.New("invalid model pair in detection output").
				WithType(ErrTypeInvalidPair).
				WithTag("first_set", pair.First != nil).
				WithTag("second_set", pair.Second != nil))
			continue
		}
		v, _ := outputs.Get(pair.First, pair.Second)
		if v == nil {
			// nil marks a contact as stale; a detected pair is never stale
			v = DetectionOutputVector{}
		}

		if e, ok := m.contactMap.lookup(pair); ok {
			e.contact.SetDetectionOutputs(v)
			continue
		}

		response := m.ContactResponse(pair.First, pair.Second)
		name, _, _ := strings.Cut(response, "?")
		if name == NullResponse {
			continue
		}

		c, err := m.factory.Create(response, pair.First, pair.Second, m.intersection, m.verbose)
		if err != nil {
			m.reportCreationError(response, pair.First, pair.Second, err)
			continue
		}

		c.SetName(pair.First.Name() + "-" + pair.Second.Name())
		setContactTags(pair.First, pair.Second, c)
		c.Init()
		c.SetDetectionOutputs(v)

		m.serial++
		m.contactMap[pair] = &contactEntry{
			pair:    pair,
			contact: c,
			serial:  m.serial,
		}
		instrumentContactCreated(name)

		logs.WithTag("contact", c.Name()).
			WithTag("contact_id", c.ID()).
			WithTag("response", name).
			Debug("contact created")
	}
}

func setContactTags(m1, m2 Model, c Contact) {
	for _, t := range m1.Tags() {
		c.AddTag(t)
	}
	for _, t := range m2.Tags() {
		c.AddTag(t)
	}
}

func (m *ContactManager) removeInactiveContacts(outputs *DetectionOutputMap) {
	for _, e := range m.contactMap.sorted() {
		if outputs.Contains(e.pair) {
			continue
		}
		if e.contact.KeepAlive() {
			e.contact.SetDetectionOutputs(nil)
			continue
		}
		m.retire(m.contactMap, e, "inactive")
	}
}

// retire detaches and cleans up the contact of e, then removes it from cm.
func (m *ContactManager) retire(cm contactMap, e *contactEntry, reason string) {
	e.contact.RemoveResponse()
	e.contact.Cleanup()
	delete(cm, e.pair)
	instrumentContactRemoved(reason)

	logs.WithTag("contact", e.contact.Name()).
		WithTag("contact_id", e.contact.ID()).
		WithTag("reason", reason).
		Debug("contact removed")
}

func (m *ContactManager) rebuildContactList() {
	entries := m.contactMap.sorted()
	m.contacts = make([]Contact, 0, len(entries))
	for _, e := range entries {
		m.contacts = append(m.contacts, e.contact)
	}
	instrumentActiveContacts(len(m.contacts))
}

func (m *ContactManager) setNumberOfContacts() {
	counts := make(map[Model]int)
	for _, e := range m.contactMap {
		counts[e.pair.First]++
		if e.pair.Second != e.pair.First {
			counts[e.pair.Second]++
		}
	}

	for model := range m.counted {
		if _, ok := counts[model]; !ok {
			model.SetNumberOfContacts(0)
		}
	}
	for model, n := range counts {
		model.SetNumberOfContacts(n)
	}
	m.counted = counts
}

// RemoveContacts removes the given contacts from the live contacts. Unknown
// contacts are ignored.
func (m *ContactManager) RemoveContacts(contacts ...Contact) {
	if len(contacts) == 0 {
		return
	}
	remove := make(map[Contact]struct{}, len(contacts))
	for _, c := range contacts {
		remove[c] = struct{}{}
	}

	removed := make(map[Contact]struct{}, len(contacts))
	for _, e := range m.contactMap.sorted() {
		if _, ok := remove[e.contact]; ok {
			m.retire(m.contactMap, e, "removed")
			removed[e.contact] = struct{}{}
		}
	}

	kept := make([]Contact, 0, len(m.contacts))
	for _, c := range m.contacts {
		if _, ok := remove[c]; !ok {
			kept = append(kept, c)
			continue
		}
		if _, ok := removed[c]; !ok {
			c.RemoveResponse()
			c.Cleanup()
			instrumentContactRemoved("removed")
		}
	}
	m.contacts = kept
	instrumentActiveContacts(len(m.contacts))
	m.setNumberOfContacts()
}

// RemoveModel removes every contact referencing model, in every instance.
func (m *ContactManager) RemoveModel(model Model) {
	maps := []contactMap{m.contactMap}
	for _, cm := range m.storedContactMap {
		maps = append(maps, cm)
	}

	for _, cm := range maps {
		for _, e := range cm.sorted() {
			if e.pair.First == model || e.pair.Second == model {
				m.retire(cm, e, "model_removed")
			}
		}
	}

	delete(m.counted, model)
	model.SetNumberOfContacts(0)
	m.rebuildContactList()
	m.setNumberOfContacts()
}

// Cleanup removes every live contact.
func (m *ContactManager) Cleanup() {
	for _, e := range m.contactMap.sorted() {
		m.retire(m.contactMap, e, "cleanup")
	}
	m.contacts = nil
	instrumentActiveContacts(0)
	m.setNumberOfContacts()
}

// Reset removes every live contact.
func (m *ContactManager) Reset() {
	m.Cleanup()
}

// ChangeInstance stores the live contacts under the current instance and
// restores the ones stored under inst.
func (m *ContactManager) ChangeInstance(inst Instance) {
	if inst == m.instance {
		return
	}

	m.storedContactMap[m.instance] = m.contactMap
	cm, ok := m.storedContactMap[inst]
	if !ok {
		cm = make(contactMap)
	}
	delete(m.storedContactMap, inst)
	m.contactMap = cm
	m.instance = inst

	m.rebuildContactList()
	m.setNumberOfContacts()
}
