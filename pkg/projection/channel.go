package projection

// Channel identifies one output relation. Every row belongs to exactly one.
type Channel int

const (
	ChannelPage Channel = iota
	ChannelArticleParents
	ChannelCategoryParents
	ChannelChildArticles
	ChannelChildCategories
	ChannelPageLinkIn
	ChannelPageLinkOut
	ChannelRedirectSourcesByTarget
	ChannelRedirectTargetsBySource
	ChannelSentenceSplits
	ChannelPageLabel
)

var fileNames = [...]string{
	ChannelPage:                    "page.csv",
	ChannelArticleParents:          "articleParents.csv",
	ChannelCategoryParents:         "categoryParents.csv",
	ChannelChildArticles:           "childArticles.csv",
	ChannelChildCategories:         "childCategories.csv",
	ChannelPageLinkIn:              "pageLinkIn.csv",
	ChannelPageLinkOut:             "pageLinkOut.csv",
	ChannelRedirectSourcesByTarget: "redirectSourcesByTarget.csv",
	ChannelRedirectTargetsBySource: "redirectTargetsBySource.csv",
	ChannelSentenceSplits:          "sentenceSplits.csv",
	ChannelPageLabel:               "pageLabel.csv",
}

// FileName is the CSV file the channel is written to.
func (c Channel) FileName() string {
	if c < 0 || int(c) >= len(fileNames) {
		return "unknown.csv"
	}
	return fileNames[c]
}

func (c Channel) String() string {
	return c.FileName()
}

// Channels lists every channel in file order.
func Channels() []Channel {
	out := make([]Channel, len(fileNames))
	for i := range fileNames {
		out[i] = Channel(i)
	}
	return out
}
