package web

type sectionView struct {
	ID          string
	Name        string
	URL         string
	HasNew      bool
	LastChecked string
	ItemCount   int
}

type itemView struct {
	Name string
	URL  string
	Type string
}
