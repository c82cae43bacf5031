package models

type Owner struct {
	Name string
}
