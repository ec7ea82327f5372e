package models

// Params holds the recognized component/item options. A nil field is unset.
type Params struct {
	InstallationSubfolder *string `json:"installation_subfolder,omitempty"`
	Robots                *string `json:"robots,omitempty"`
}

// Merge returns p overridden by every option set in item
func (p Params) Merge(item Params) Params {
	merged := p
	if item.InstallationSubfolder != nil {
		merged.InstallationSubfolder = item.InstallationSubfolder
	}
	if item.Robots != nil {
		merged.Robots = item.Robots
	}
	return merged
}

// Subfolder returns the installation subfolder, "" when unset
func (p Params) Subfolder() string {
	if p.InstallationSubfolder == nil {
		return ""
	}
	return *p.InstallationSubfolder
}

// RobotsValue returns the robots directive, "" when unset
func (p Params) RobotsValue() string {
	if p.Robots == nil {
		return ""
	}
	return *p.Robots
}
